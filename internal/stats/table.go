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
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// NewTable returns a table writer rendering to w.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// PrintTable renders the summary as two console tables: run and record
// statistics, then the distribution by sex.
func PrintTable(w io.Writer, s Summary) {
	t := NewTable(w)
	t.SetTitle("Statistics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total records", humanize.Comma(int64(s.TotalRecords))},
		{"Unique provinces", s.UniqueProvinces},
		{"Mean age", s.MeanAgeString()},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Pages fetched", s.Results.Pages},
		{"API calls", s.Results.APICallCount},
		{"Duration", s.Results.Duration},
	})
	t.Render()

	if len(s.SexDistribution) == 0 {
		return
	}

	d := NewTable(w)
	d.SetTitle("Distribution by sex")
	d.AppendHeader(table.Row{"Sexo", "Count", "Share"})
	for _, vc := range s.SexDistribution {
		d.AppendRow(table.Row{vc.Value, vc.Count, share(vc.Count, s.TotalRecords)})
	}
	d.Render()
}

func share(n, total int) string {
	if total == 0 {
		return NotAvailable
	}
	return strconv.FormatFloat(float64(n)*100/float64(total), 'f', 1, 64) + "%"
}
