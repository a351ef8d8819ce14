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

// Package main implements the rni-relay command-line interface.
// It walks the historias GraphQL collection page by page, then writes the
// records as raw JSON, flattened CSV and an XLSX workbook, and prints
// summary statistics.
//
// The CLI supports:
//   - Configurable endpoint, page size, record cap and pause between pages
//   - Optional NDJSON and SQLite exports
//   - A Markdown report and a JSON metadata file for each run
//   - Settings from flags, RNI_* environment variables or a YAML file
//   - Partial results on Ctrl-C
//
// Usage:
//
//	rni-relay fetch [flags]
//
// Example:
//
//	rni-relay fetch --max-records 500 --output-dir data --sqlite historias.db
//
// Exit codes:
//   - 0: Success, including runs that fetched nothing
//   - 1: General error
//   - 2: Invalid configuration
//   - 4: JSON or CSV export failed
package main
