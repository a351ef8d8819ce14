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

package stats

import (
	"time"
)

// FetchMetadata is the persisted record of one scraping run.
type FetchMetadata struct {
	RelayVersion string       `json:"relay_version"`
	FetchID      string       `json:"fetch_id"`
	Parameters   FetchParams  `json:"parameters"`
	Results      FetchResults `json:"results"`
	Statistics   *Summary     `json:"statistics,omitempty"`
}

// FetchParams captures the settings the run was started with.
type FetchParams struct {
	Endpoint   string `json:"endpoint"`
	BatchSize  int    `json:"batch_size"`
	MaxRecords int    `json:"max_records"`
	Delay      string `json:"request_delay"`
}

// FetchResults holds the counters collected by a Tracker.
type FetchResults struct {
	TotalRecords int       `json:"total_records"`
	Pages        int       `json:"pages_fetched"`
	APICallCount int       `json:"api_calls_made"`
	Duration     string    `json:"fetch_duration"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// ValueCount is one entry of a value distribution.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary is the statistics block printed after a run. MeanAge is nil when
// no record carries an age.
type Summary struct {
	TotalRecords    int          `json:"total_records"`
	UniqueProvinces int          `json:"unique_provinces"`
	SexDistribution []ValueCount `json:"sex_distribution"`
	MeanAge         *float64     `json:"mean_age"`
	Results         FetchResults `json:"-"`
}
