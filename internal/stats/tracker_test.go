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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestTracker_Counters(t *testing.T) {
	tests := []struct {
		name      string
		pages     []int
		failures  int
		total     int
		wantPages int
		wantCalls int
		wantTotal int
	}{
		{
			name:      "no requests",
			wantPages: 0,
			wantCalls: 0,
			wantTotal: 0,
		},
		{
			name:      "three pages",
			pages:     []int{100, 100, 40},
			wantPages: 3,
			wantCalls: 3,
			wantTotal: 240,
		},
		{
			name:      "failed request still counts as a call",
			pages:     []int{100},
			failures:  1,
			wantPages: 1,
			wantCalls: 2,
			wantTotal: 100,
		},
		{
			name:      "truncated total",
			pages:     []int{100, 100},
			total:     150,
			wantPages: 2,
			wantCalls: 2,
			wantTotal: 150,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := New()
			for _, n := range tt.pages {
				tracker.IncrementAPICall()
				tracker.RecordPage(n)
			}
			for i := 0; i < tt.failures; i++ {
				tracker.IncrementAPICall()
			}
			if tt.total > 0 {
				tracker.SetTotal(tt.total)
			}

			res := tracker.Results()
			if res.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", res.Pages, tt.wantPages)
			}
			if res.APICallCount != tt.wantCalls {
				t.Errorf("APICallCount = %d, want %d", res.APICallCount, tt.wantCalls)
			}
			if res.TotalRecords != tt.wantTotal {
				t.Errorf("TotalRecords = %d, want %d", res.TotalRecords, tt.wantTotal)
			}
			if tracker.APICalls() != tt.wantCalls || tracker.Pages() != tt.wantPages {
				t.Errorf("accessors = (%d, %d), want (%d, %d)", tracker.APICalls(), tracker.Pages(), tt.wantCalls, tt.wantPages)
			}
		})
	}
}

func TestTracker_GenerateMetadata(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2500 * time.Millisecond)
	tracker := newTracker(fixedClock(start, end))
	tracker.IncrementAPICall()
	tracker.RecordPage(10)

	params := FetchParams{Endpoint: "http://example.test/graphql", BatchSize: 10, Delay: "1s"}
	meta := tracker.GenerateMetadata("1.2.3", params, nil)

	if meta.RelayVersion != "1.2.3" {
		t.Errorf("RelayVersion = %q, want 1.2.3", meta.RelayVersion)
	}
	if want := "historias-1709294400"; meta.FetchID != want {
		t.Errorf("FetchID = %q, want %q", meta.FetchID, want)
	}
	if meta.Parameters != params {
		t.Errorf("Parameters = %+v, want %+v", meta.Parameters, params)
	}
	if meta.Results.Duration != "2.5s" {
		t.Errorf("Duration = %q, want 2.5s", meta.Results.Duration)
	}
	if !meta.Results.StartedAt.Equal(start) || !meta.Results.CompletedAt.Equal(end) {
		t.Errorf("timestamps = %v..%v, want %v..%v", meta.Results.StartedAt, meta.Results.CompletedAt, start, end)
	}
	if meta.Statistics != nil {
		t.Errorf("Statistics = %+v, want nil", meta.Statistics)
	}
}

func TestSaveMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "run.json")

	age := 31.5
	tracker := New()
	tracker.IncrementAPICall()
	tracker.RecordPage(2)
	summary := &Summary{
		TotalRecords:    2,
		UniqueProvinces: 1,
		SexDistribution: []ValueCount{{Value: "FEMENINO", Count: 2}},
		MeanAge:         &age,
	}
	meta := tracker.GenerateMetadata("dev", FetchParams{BatchSize: 100}, summary)

	if err := SaveMetadata(meta, path); err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}

	loaded, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata() error = %v", err)
	}
	if loaded.FetchID != meta.FetchID {
		t.Errorf("FetchID = %q, want %q", loaded.FetchID, meta.FetchID)
	}
	if loaded.Results.APICallCount != 1 || loaded.Results.TotalRecords != 2 {
		t.Errorf("Results = %+v", loaded.Results)
	}
	if loaded.Statistics == nil || loaded.Statistics.MeanAge == nil || *loaded.Statistics.MeanAge != age {
		t.Errorf("Statistics = %+v", loaded.Statistics)
	}
}

func TestSaveMetadata_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := SaveMetadata(New().GenerateMetadata("dev", FetchParams{}, nil), filepath.Join(blocker, "run.json"))
	if err == nil {
		t.Fatal("expected error when parent is a regular file")
	}
}

func TestWriteMetadataToWriter(t *testing.T) {
	var buf bytes.Buffer
	meta := New().GenerateMetadata("dev", FetchParams{Endpoint: "e", BatchSize: 5}, nil)

	if err := WriteMetadataToWriter(meta, &buf); err != nil {
		t.Fatalf("WriteMetadataToWriter() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"relay_version\": \"dev\"") {
		t.Errorf("output not indented as expected:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "statistics") {
		t.Error("nil statistics should be omitted")
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	params, _ := decoded["parameters"].(map[string]any)
	if params["batch_size"] != float64(5) {
		t.Errorf("batch_size = %v, want 5", params["batch_size"])
	}
}
