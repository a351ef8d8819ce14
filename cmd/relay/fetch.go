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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sirseerhq/rni-relay/internal/config"
	relayerrors "github.com/sirseerhq/rni-relay/internal/errors"
	"github.com/sirseerhq/rni-relay/internal/flatten"
	rlog "github.com/sirseerhq/rni-relay/internal/log"
	"github.com/sirseerhq/rni-relay/internal/output"
	"github.com/sirseerhq/rni-relay/internal/rni"
	"github.com/sirseerhq/rni-relay/internal/scraper"
	"github.com/sirseerhq/rni-relay/internal/stats"
	"github.com/sirseerhq/rni-relay/pkg/version"
	"github.com/spf13/cobra"
)

// fetchFlags holds the raw flag values; only flags the user set override
// the loaded configuration.
type fetchFlags struct {
	configPath   string
	endpoint     string
	batchSize    int
	maxRecords   int
	delay        time.Duration
	timeout      time.Duration
	outputDir    string
	jsonFile     string
	csvFile      string
	xlsxFile     string
	ndjsonFile   string
	sqliteFile   string
	reportFile   string
	metadataFile string
	verbose      bool
}

// fetchEnv carries the collaborators of a run so tests can replace them.
type fetchEnv struct {
	client rni.Client
	stdout io.Writer
	stderr io.Writer
	sleep  scraper.SleepFunc
	logger *slog.Logger
}

func newFetchCommand() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch every historia and export it",
		Long: `Fetch every historia from the GraphQL endpoint and export it.

Pages of --batch-size records are requested with a growing offset until the
server returns an empty page, a request fails or --max-records is reached.
A failed request is reported and ends the walk; records fetched so far are
still exported.

Outputs (relative names resolve against --output-dir):
  historias_raw.json  raw records, as returned by the API
  historias.csv       one flattened row per record
  historias.xlsx      the same rows in a workbook

Settings are read, lowest precedence first, from built-in defaults, a YAML
config file (--config, .rni-relay.yaml, .rni-relay.yml or
$XDG_CONFIG_HOME/rni-relay/config.yaml), RNI_* environment variables and
flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFetchConfig(cmd, &flags)
			if err != nil {
				return err
			}

			env := fetchEnv{
				client: rni.NewGraphQLClient(cfg.API.GraphQLEndpoint, cfg.API.Timeout),
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
				logger: rlog.NewLogger(cmd.ErrOrStderr(), flags.verbose),
			}
			return runFetch(cmd.Context(), cfg, env)
		},
	}

	bindFetchFlags(cmd, &flags)
	return cmd
}

// bindFetchFlags registers the fetch flags on cmd, storing values in flags.
func bindFetchFlags(cmd *cobra.Command, flags *fetchFlags) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	f.StringVar(&flags.endpoint, "endpoint", defaults.API.GraphQLEndpoint, "GraphQL endpoint URL")
	f.IntVar(&flags.batchSize, "batch-size", defaults.Scrape.BatchSize, "Records requested per page")
	f.IntVar(&flags.maxRecords, "max-records", defaults.Scrape.MaxRecords, "Stop after this many records (0 = all)")
	f.DurationVar(&flags.delay, "delay", defaults.Scrape.RequestDelay, "Pause between successful pages")
	f.DurationVar(&flags.timeout, "timeout", defaults.API.Timeout, "Per-request timeout")
	f.StringVar(&flags.outputDir, "output-dir", defaults.Output.Dir, "Directory for output files")
	f.StringVar(&flags.jsonFile, "json-file", defaults.Output.JSONFile, "Raw JSON output file")
	f.StringVar(&flags.csvFile, "csv-file", defaults.Output.CSVFile, "CSV output file")
	f.StringVar(&flags.xlsxFile, "xlsx-file", defaults.Output.XLSXFile, "XLSX output file (empty to skip)")
	f.StringVar(&flags.ndjsonFile, "ndjson", "", "Also write raw records as NDJSON to this file")
	f.StringVar(&flags.sqliteFile, "sqlite", "", "Also write flattened rows to this SQLite database")
	f.StringVar(&flags.reportFile, "report", "", "Write a Markdown statistics report to this file")
	f.StringVar(&flags.metadataFile, "metadata", "", "Write run metadata as JSON to this file")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
}

// loadFetchConfig layers flags the user set over the loaded configuration
// and validates the result.
func loadFetchConfig(cmd *cobra.Command, flags *fetchFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		if errors.Is(err, relayerrors.ErrInvalidConfig) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", relayerrors.ErrInvalidConfig, err)
	}

	f := cmd.Flags()
	if f.Changed("endpoint") {
		cfg.API.GraphQLEndpoint = flags.endpoint
	}
	if f.Changed("timeout") {
		cfg.API.Timeout = flags.timeout
	}
	if f.Changed("batch-size") {
		cfg.Scrape.BatchSize = flags.batchSize
	}
	if f.Changed("max-records") {
		cfg.Scrape.MaxRecords = flags.maxRecords
	}
	if f.Changed("delay") {
		cfg.Scrape.RequestDelay = flags.delay
	}
	if f.Changed("output-dir") {
		cfg.Output.Dir = flags.outputDir
	}
	if f.Changed("json-file") {
		cfg.Output.JSONFile = flags.jsonFile
	}
	if f.Changed("csv-file") {
		cfg.Output.CSVFile = flags.csvFile
	}
	if f.Changed("xlsx-file") {
		cfg.Output.XLSXFile = flags.xlsxFile
	}
	if f.Changed("ndjson") {
		cfg.Output.NDJSONFile = flags.ndjsonFile
	}
	if f.Changed("sqlite") {
		cfg.Output.SQLiteFile = flags.sqliteFile
	}
	if f.Changed("report") {
		cfg.Output.ReportFile = flags.reportFile
	}
	if f.Changed("metadata") {
		cfg.Output.MetadataFile = flags.metadataFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runFetch scrapes the collection, writes the exports and prints the
// statistics. JSON and CSV failures abort with ErrExportFailed; the other
// exports only warn.
func runFetch(ctx context.Context, cfg *config.Config, env fetchEnv) error {
	if env.stdout == nil {
		env.stdout = os.Stdout
	}
	if env.stderr == nil {
		env.stderr = os.Stderr
	}
	if env.logger == nil {
		env.logger = rlog.Discard()
	}

	opts := []scraper.Option{
		scraper.WithOutput(env.stderr),
		scraper.WithLogger(env.logger),
		scraper.WithTracker(stats.New()),
		scraper.WithDelay(cfg.Scrape.RequestDelay),
	}
	if env.sleep != nil {
		opts = append(opts, scraper.WithSleep(env.sleep))
	}
	paginator := scraper.New(env.client, opts...)

	env.logger.Debug("starting scrape",
		"endpoint", cfg.API.GraphQLEndpoint,
		"batch_size", cfg.Scrape.BatchSize,
		"max_records", cfg.Scrape.MaxRecords)
	fmt.Fprintln(env.stderr, "starting scrape...")

	historias := paginator.ScrapeAll(ctx, cfg.Scrape.BatchSize, cfg.Scrape.MaxRecords)

	fmt.Fprintf(env.stderr, "\ntotal stories fetched: %d\n", len(historias))
	if len(historias) == 0 {
		return nil
	}

	// Exports run even after Ctrl-C so partial results are kept.
	ctx = context.WithoutCancel(ctx)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create output directory: %v", relayerrors.ErrExportFailed, err)
	}

	jsonPath := cfg.OutputPath(cfg.Output.JSONFile)
	if err := output.WriteJSON(jsonPath, historias); err != nil {
		return fmt.Errorf("%w: %v", relayerrors.ErrExportFailed, err)
	}
	fmt.Fprintln(env.stderr, output.SavedLine(jsonPath))

	rows := flatten.Flatten(historias)

	csvPath := cfg.OutputPath(cfg.Output.CSVFile)
	if err := output.WriteCSV(csvPath, rows); err != nil {
		return fmt.Errorf("%w: %v", relayerrors.ErrExportFailed, err)
	}
	fmt.Fprintln(env.stderr, output.SavedLine(csvPath))

	optional := []struct {
		format string
		path   string
		write  func(path string) error
	}{
		{"xlsx", cfg.OutputPath(cfg.Output.XLSXFile), func(p string) error { return output.WriteXLSX(p, rows) }},
		{"ndjson", cfg.OutputPath(cfg.Output.NDJSONFile), func(p string) error { return output.WriteNDJSON(p, historias) }},
		{"sqlite", cfg.OutputPath(cfg.Output.SQLiteFile), func(p string) error { return output.WriteSQLite(ctx, p, rows) }},
	}
	for _, exp := range optional {
		if exp.path == "" {
			continue
		}
		if err := exp.write(exp.path); err != nil {
			env.logger.Warn("could not save export", "format", exp.format, "path", exp.path, "error", err)
			continue
		}
		fmt.Fprintln(env.stderr, output.SavedLine(exp.path))
	}

	summary := stats.Summarize(rows, paginator.Tracker().Results())
	fmt.Fprintln(env.stdout)
	stats.PrintTable(env.stdout, summary)

	if path := cfg.OutputPath(cfg.Output.ReportFile); path != "" {
		if err := stats.SaveMarkdown(path, summary); err != nil {
			env.logger.Warn("could not save report", "path", path, "error", err)
		} else {
			fmt.Fprintln(env.stderr, output.SavedLine(path))
		}
	}

	if path := cfg.OutputPath(cfg.Output.MetadataFile); path != "" {
		params := stats.FetchParams{
			Endpoint:   cfg.API.GraphQLEndpoint,
			BatchSize:  cfg.Scrape.BatchSize,
			MaxRecords: cfg.Scrape.MaxRecords,
			Delay:      cfg.Scrape.RequestDelay.String(),
		}
		metadata := paginator.Tracker().GenerateMetadata(version.Version, params, &summary)
		if err := stats.SaveMetadata(metadata, path); err != nil {
			env.logger.Warn("could not save metadata", "path", path, "error", err)
		} else {
			fmt.Fprintln(env.stderr, output.SavedLine(path))
		}
	}

	return nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relayerrors.ErrInvalidConfig) {
		return 2
	}

	if errors.Is(err, relayerrors.ErrExportFailed) {
		return 4
	}

	return 1
}
