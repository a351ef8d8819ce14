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
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sirseerhq/rni-relay/internal/flatten"
)

// NotAvailable is printed in place of a statistic with no input values.
const NotAvailable = "n/a"

// Summarize computes the record statistics over rows. Null cells are
// excluded from every statistic.
func Summarize(rows []flatten.Row, results FetchResults) Summary {
	return Summary{
		TotalRecords:    len(rows),
		UniqueProvinces: uniqueCount(rows, flatten.ColProvincia),
		SexDistribution: valueCounts(rows, flatten.ColSexo),
		MeanAge:         mean(rows, flatten.ColEdad),
		Results:         results,
	}
}

// MeanAgeString formats the mean age with one decimal, or NotAvailable.
func (s Summary) MeanAgeString() string {
	if s.MeanAge == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*s.MeanAge, 'f', 1, 64)
}

func uniqueCount(rows []flatten.Row, column string) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		if key, ok := cellKey(row, column); ok {
			seen[key] = struct{}{}
		}
	}
	return len(seen)
}

// valueCounts returns counts sorted by descending count; ties keep the
// order in which values first appeared.
func valueCounts(rows []flatten.Row, column string) []ValueCount {
	index := make(map[string]int)
	counts := []ValueCount{}
	for _, row := range rows {
		key, ok := cellKey(row, column)
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, ValueCount{Value: key, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

func mean(rows []flatten.Row, column string) *float64 {
	var sum float64
	var n int
	for _, row := range rows {
		v, ok := row.Get(column)
		if !ok {
			continue
		}
		f, ok := numeric(v)
		if !ok {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

func cellKey(row flatten.Row, column string) (string, bool) {
	v, ok := row.Get(column)
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

func numeric(v any) (float64, bool) {
	var f float64
	var err error
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	case float64:
		f = n
	case int:
		f = float64(n)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
