// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads rni-relay settings from several sources with a fixed
// precedence order, highest first:
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// Flags are applied by the command; this package handles the rest. The
// configuration file is YAML and is looked up, when no explicit path is
// given, in the working directory and then under the XDG config home.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	relayerrors "github.com/sirseerhq/rni-relay/internal/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfig.
const (
	EnvEndpoint     = "RNI_GRAPHQL_ENDPOINT"
	EnvBatchSize    = "RNI_BATCH_SIZE"
	EnvMaxRecords   = "RNI_MAX_RECORDS"
	EnvOutputDir    = "RNI_OUTPUT_DIR"
	EnvRequestDelay = "RNI_REQUEST_DELAY"
	EnvTimeout      = "RNI_TIMEOUT"
)

// SearchPaths returns the locations searched for a configuration file when
// none is given explicitly:
//   - .rni-relay.yaml (current directory)
//   - .rni-relay.yml (current directory)
//   - $XDG_CONFIG_HOME/rni-relay/config.yaml
func SearchPaths() []string {
	return []string{
		".rni-relay.yaml",
		".rni-relay.yml",
		filepath.Join(xdg.ConfigHome, "rni-relay", "config.yaml"),
	}
}

// LoadConfig builds the configuration from defaults, the configuration file
// and environment overrides. An explicit configPath must exist; otherwise
// the first file found in SearchPaths is used, and having none is fine.
// The returned Config has not been validated.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range SearchPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Output.Dir = expandPath(cfg.Output.Dir)

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w: %w", path, relayerrors.ErrInvalidConfig, err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		cfg.API.GraphQLEndpoint = endpoint
	}
	if dir := os.Getenv(EnvOutputDir); dir != "" {
		cfg.Output.Dir = dir
	}

	if v := os.Getenv(EnvBatchSize); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return envError(EnvBatchSize, err)
		}
		cfg.Scrape.BatchSize = n
	}
	if v := os.Getenv(EnvMaxRecords); v != "" {
		n, err := parseNonNegativeInt(v)
		if err != nil {
			return envError(EnvMaxRecords, err)
		}
		cfg.Scrape.MaxRecords = n
	}
	if v := os.Getenv(EnvRequestDelay); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return envError(EnvRequestDelay, err)
		}
		cfg.Scrape.RequestDelay = d
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return envError(EnvTimeout, err)
		}
		cfg.API.Timeout = d
	}

	return nil
}

func envError(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", relayerrors.ErrInvalidConfig, name, err)
}

// expandPath expands a leading ~ and environment variables.
func expandPath(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(xdg.Home, path[2:])
	}
	return os.ExpandEnv(path)
}

func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s'", s)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

func parseNonNegativeInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s'", s)
	}
	if i < 0 {
		return 0, fmt.Errorf("value must not be negative, got: %d", i)
	}
	return i, nil
}

// parseDuration accepts Go durations ("1500ms", "2s") and bare numbers of
// seconds ("1.5").
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration from '%s'", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// OutputPath resolves an export file name against the output directory.
// An empty name stays empty.
func (c *Config) OutputPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// Validate checks the configuration. Every failure wraps
// errors.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %v", relayerrors.ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.API.GraphQLEndpoint == "" {
		return fmt.Errorf("GraphQL endpoint cannot be empty")
	}
	u, err := url.Parse(c.API.GraphQLEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GraphQL endpoint must be an http(s) URL, got: %q", c.API.GraphQLEndpoint)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %s", c.API.Timeout)
	}
	if c.Scrape.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got: %d", c.Scrape.BatchSize)
	}
	if c.Scrape.MaxRecords < 0 {
		return fmt.Errorf("max records must not be negative, got: %d", c.Scrape.MaxRecords)
	}
	if c.Scrape.RequestDelay < 0 {
		return fmt.Errorf("request delay must not be negative, got: %s", c.Scrape.RequestDelay)
	}
	if c.Output.JSONFile == "" {
		return fmt.Errorf("JSON output file cannot be empty")
	}
	if c.Output.CSVFile == "" {
		return fmt.Errorf("CSV output file cannot be empty")
	}
	return nil
}
