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
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirseerhq/rni-relay/internal/flatten"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the flattened historias.
const SheetName = "historias"

// WriteXLSX writes rows to a new workbook at path. Numeric values become
// numeric cells; null cells are left empty.
func WriteXLSX(path string, rows []flatten.Row) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open worksheet: %w", err)
	}

	columns := flatten.Columns(rows)
	if len(columns) > 0 {
		header := make([]any, len(columns))
		for i, c := range columns {
			header[i] = c
		}
		if err := sw.SetRow("A1", header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, cells := range matrix(rows, columns) {
		for i, v := range cells {
			cells[i] = xlsxValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush worksheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func xlsxValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case string:
		if len(x) > excelize.TotalCellChars {
			return truncateRunes(x, excelize.TotalCellChars)
		}
		return x
	default:
		return x
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
