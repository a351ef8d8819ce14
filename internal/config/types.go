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

// Package config types define the settings rni-relay reads from YAML files,
// environment variables and command-line flags.
package config

import "time"

// DefaultEndpoint is the public historias GraphQL endpoint.
const DefaultEndpoint = "https://backend-rni-vzlovy3u4a-rj.a.run.app/graphql"

// Config is the complete configuration for a scraping run.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Scrape ScrapeConfig `yaml:"scrape"`
	Output OutputConfig `yaml:"output"`
}

// APIConfig points the client at the GraphQL endpoint.
type APIConfig struct {
	GraphQLEndpoint string        `yaml:"graphql_endpoint"`
	Timeout         time.Duration `yaml:"timeout"`
}

// ScrapeConfig controls pagination. MaxRecords of zero fetches the whole
// collection.
type ScrapeConfig struct {
	BatchSize    int           `yaml:"batch_size"`
	MaxRecords   int           `yaml:"max_records"`
	RequestDelay time.Duration `yaml:"request_delay"`
}

// OutputConfig names the export files. Relative names resolve against Dir;
// an empty optional name disables that export.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	JSONFile     string `yaml:"json_file"`
	CSVFile      string `yaml:"csv_file"`
	XLSXFile     string `yaml:"xlsx_file"`
	NDJSONFile   string `yaml:"ndjson_file"`
	SQLiteFile   string `yaml:"sqlite_file"`
	ReportFile   string `yaml:"report_file"`
	MetadataFile string `yaml:"metadata_file"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			GraphQLEndpoint: DefaultEndpoint,
			Timeout:         30 * time.Second,
		},
		Scrape: ScrapeConfig{
			BatchSize:    100,
			MaxRecords:   0,
			RequestDelay: time.Second,
		},
		Output: OutputConfig{
			Dir:      ".",
			JSONFile: "historias_raw.json",
			CSVFile:  "historias.csv",
			XLSXFile: "historias.xlsx",
		},
	}
}
