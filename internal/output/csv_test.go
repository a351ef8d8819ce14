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

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirseerhq/rni-relay/internal/flatten"
	"github.com/sirseerhq/rni-relay/internal/rni"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "Iñaquito", "Iñaquito"},
		{"integer", json.Number("34"), "34"},
		{"decimal", json.Number("2.5"), "2.5"},
		{"bool", true, "true"},
		{"other", 7, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCell(tt.in); got != tt.want {
				t.Errorf("FormatCell(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	return records
}

func TestEncodeCSV(t *testing.T) {
	rows := flatten.Flatten(sampleHistorias())

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, rows); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	records := readCSV(t, buf.Bytes())

	wantHeader := append(append([]string{}, flatten.FixedColumns...), "reaccion_LOVE", "reaccion_ANGRY", "reaccion_SAD")
	if diff := cmp.Diff(wantHeader, records[0]); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3 rows", len(records))
	}

	col := make(map[string]int)
	for i, name := range records[0] {
		col[name] = i
	}

	tests := []struct {
		row    int
		column string
		want   string
	}{
		{1, "historia_id", "h1"},
		{1, "parroquia", "Iñaquito"},
		{1, "edad", "34"},
		{1, "reaccion_LOVE", "3"},
		{1, "reaccion_ANGRY", "1"},
		{1, "reaccion_SAD", ""},
		{2, "reaccion_LOVE", ""},
		{2, "total_reacciones", "0"},
		{3, "infiel_id", ""},
		{3, "edad", ""},
		{3, "reputacion_tipo", ""},
		{3, "reaccion_SAD", "2"},
	}
	for _, tt := range tests {
		if got := records[tt.row][col[tt.column]]; got != tt.want {
			t.Errorf("row %d %s = %q, want %q", tt.row, tt.column, got, tt.want)
		}
	}
}

func TestEncodeCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, nil); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for no rows, got %q", buf.String())
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	historias := rni.GenerateHistorias(250)
	historias[10].HistoriaFiltrada = rni.StringValue("línea uno\nlínea \"dos\", con coma")
	rows := flatten.Flatten(historias)
	path := filepath.Join(t.TempDir(), "historias.csv")

	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	records := readCSV(t, data)

	if len(records) != len(rows)+1 {
		t.Fatalf("got %d data rows, want %d", len(records)-1, len(rows))
	}
	width := len(records[0])
	for i, rec := range records {
		if len(rec) != width {
			t.Errorf("record %d has %d fields, want %d", i, len(rec), width)
		}
	}
	if got := records[11][9]; got != "línea uno\nlínea \"dos\", con coma" {
		t.Errorf("quoted field = %q", got)
	}
}

func TestWriteCSV_BadPath(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSavedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	got := SavedLine(path)
	if !strings.HasPrefix(got, "data saved to "+path+" (") || !strings.Contains(got, "kB") {
		t.Errorf("SavedLine() = %q", got)
	}

	missing := filepath.Join(t.TempDir(), "none.csv")
	if got := SavedLine(missing); got != "data saved to "+missing {
		t.Errorf("SavedLine(missing) = %q", got)
	}
}
