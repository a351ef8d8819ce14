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
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/sirseerhq/rni-relay/internal/flatten"
)

// FormatCell renders a flattened value as text. Null becomes the empty
// string and numbers keep the decimal form the server sent.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// matrix lays rows out against columns; absent cells are nil.
func matrix(rows []flatten.Row, columns []string) [][]any {
	out := make([][]any, 0, len(rows))
	for _, row := range rows {
		cells := make([]any, len(columns))
		for i, col := range columns {
			if v, ok := row.Get(col); ok {
				cells[i] = v
			}
		}
		out = append(out, cells)
	}
	return out
}

// SavedLine returns the confirmation printed after an export, with the file
// size in human units.
func SavedLine(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("data saved to %s", path)
	}
	return fmt.Sprintf("data saved to %s (%s)", path, humanize.Bytes(uint64(info.Size())))
}
