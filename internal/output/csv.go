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
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sirseerhq/rni-relay/internal/flatten"
)

// EncodeCSV writes rows to w as UTF-8 CSV with a header row.
func EncodeCSV(w io.Writer, rows []flatten.Row) error {
	columns := flatten.Columns(rows)
	cw := csv.NewWriter(w)

	if len(columns) > 0 {
		if err := cw.Write(columns); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}

	record := make([]string, len(columns))
	for _, cells := range matrix(rows, columns) {
		for i, v := range cells {
			record[i] = FormatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV writes rows to path, replacing any existing file.
func WriteCSV(path string, rows []flatten.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	bw := bufio.NewWriter(file)
	if err := EncodeCSV(bw, rows); err != nil {
		_ = file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
