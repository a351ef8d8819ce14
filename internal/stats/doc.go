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

// Package stats tracks a scraping run and summarizes the flattened records
// it produced.
//
// A Tracker is created when the run starts. The paginator reports every
// request and every page to it, and at the end GenerateMetadata captures the
// counts and timings. Summarize derives the record statistics (unique
// provinces, distribution by sex, mean age) from the flattened rows.
//
// Results can be printed as a console table, written as a Markdown report,
// or persisted as a JSON metadata file.
package stats
