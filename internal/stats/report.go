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
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// WriteMarkdown writes the summary as a Markdown report to w.
func WriteMarkdown(w io.Writer, s Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("Historias Report")
	md.PlainText("")

	md.H2("Run")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", s.Results.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", s.Results.Duration},
			{"Pages fetched", strconv.Itoa(s.Results.Pages)},
			{"API calls", strconv.Itoa(s.Results.APICallCount)},
		},
	})
	md.PlainText("")

	md.H2("Records")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total records", strconv.Itoa(s.TotalRecords)},
			{"Unique provinces", strconv.Itoa(s.UniqueProvinces)},
			{"Mean age", s.MeanAgeString()},
		},
	})
	md.PlainText("")

	writeSexDistribution(md, s)

	return md.Build()
}

func writeSexDistribution(md *markdown.Markdown, s Summary) {
	md.H2("Distribution by sex")
	md.PlainText("")

	if len(s.SexDistribution) == 0 {
		md.PlainText("No records carry a value for sexo.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(s.SexDistribution))
	for _, vc := range s.SexDistribution {
		rows = append(rows, []string{vc.Value, strconv.Itoa(vc.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Sexo", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Distribution by sex"),
		piechart.WithShowData(true),
	)
	for _, vc := range s.SexDistribution {
		chart.LabelAndIntValue(vc.Value, uint64(vc.Count))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// SaveMarkdown writes the Markdown report to path.
func SaveMarkdown(path string, s Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := WriteMarkdown(file, s); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return file.Close()
}
