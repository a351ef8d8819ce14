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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Tracker collects counters during a scraping run. It is not safe for
// concurrent use; the paginator drives it from a single goroutine.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	pages        int
	records      int
	now          func() time.Time
}

// New creates a tracker whose clock starts now.
func New() *Tracker {
	return newTracker(time.Now)
}

func newTracker(now func() time.Time) *Tracker {
	return &Tracker{
		startTime: now(),
		now:       now,
	}
}

// IncrementAPICall records that a request was issued, whether or not it
// succeeded.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// RecordPage records a non-empty page of n records.
func (t *Tracker) RecordPage(n int) {
	t.pages++
	t.records += n
}

// SetTotal overrides the record count, used after truncation to the
// requested maximum.
func (t *Tracker) SetTotal(n int) {
	t.records = n
}

// APICalls returns the number of requests recorded so far.
func (t *Tracker) APICalls() int {
	return t.apiCallCount
}

// Pages returns the number of non-empty pages recorded so far.
func (t *Tracker) Pages() int {
	return t.pages
}

// Results snapshots the counters, stamping the completion time.
func (t *Tracker) Results() FetchResults {
	completedAt := t.now()
	return FetchResults{
		TotalRecords: t.records,
		Pages:        t.pages,
		APICallCount: t.apiCallCount,
		Duration:     completedAt.Sub(t.startTime).Round(time.Millisecond).String(),
		StartedAt:    t.startTime,
		CompletedAt:  completedAt,
	}
}

// GenerateMetadata builds the metadata record for the run. summary may be
// nil when no statistics were computed.
func (t *Tracker) GenerateMetadata(relayVersion string, params FetchParams, summary *Summary) *FetchMetadata {
	return &FetchMetadata{
		RelayVersion: relayVersion,
		FetchID:      fmt.Sprintf("historias-%d", t.startTime.Unix()),
		Parameters:   params,
		Results:      t.Results(),
		Statistics:   summary,
	}
}

// SaveMetadata writes metadata as indented JSON to path. The file is written
// to a temporary sibling first and renamed into place.
func SaveMetadata(metadata *FetchMetadata, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// LoadMetadata reads a metadata file written by SaveMetadata.
func LoadMetadata(path string) (*FetchMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var metadata FetchMetadata
	if err := json.NewDecoder(file).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &metadata, nil
}

// WriteMetadataToWriter serializes metadata as indented JSON to w.
func WriteMetadataToWriter(metadata *FetchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
