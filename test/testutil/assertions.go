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

package testutil

import (
	"strings"
	"testing"
)

// AssertHistoriasJSON validates that path holds a JSON array of count
// historias, each with an _id.
func AssertHistoriasJSON(t *testing.T, path string, count int) {
	t.Helper()

	var historias []map[string]any
	ReadJSON(t, path, &historias)

	if len(historias) != count {
		t.Errorf("Expected %d historias in %s, got %d", count, path, len(historias))
	}
	for i, h := range historias {
		if _, ok := h["_id"]; !ok {
			t.Errorf("Historia %d: missing _id", i)
		}
	}
}

// AssertCSVRows validates that path holds a header row plus count data rows
// of equal width, and returns the header.
func AssertCSVRows(t *testing.T, path string, count int) []string {
	t.Helper()

	records := ReadCSV(t, path)
	if len(records) == 0 {
		t.Fatalf("CSV file %s is empty", path)
	}
	if len(records)-1 != count {
		t.Errorf("Expected %d CSV rows in %s, got %d", count, path, len(records)-1)
	}
	width := len(records[0])
	for i, rec := range records {
		if len(rec) != width {
			t.Errorf("CSV record %d has %d fields, want %d", i, len(rec), width)
		}
	}
	return records[0]
}

// AssertMetadataFile validates the metadata file written with --metadata.
func AssertMetadataFile(t *testing.T, path string, totalRecords int) {
	t.Helper()

	var metadata map[string]any
	ReadJSON(t, path, &metadata)

	for _, field := range []string{"relay_version", "fetch_id", "parameters", "results"} {
		if _, ok := metadata[field]; !ok {
			t.Errorf("Missing required metadata field: %s", field)
		}
	}

	results, _ := metadata["results"].(map[string]any)
	if got, _ := results["total_records"].(float64); int(got) != totalRecords {
		t.Errorf("Metadata total_records = %v, want %d", results["total_records"], totalRecords)
	}
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertErrorContains checks if an error contains expected text
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain %q, got: %v", expected, err)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
