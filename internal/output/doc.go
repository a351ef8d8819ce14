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

// Package output persists scraped historias.
//
// Two shapes are written. The raw stories, exactly as the API returned them,
// go to an indented JSON array (WriteJSON) or to NDJSON, one story per line
// (WriteNDJSON). Flattened rows go to tabular formats: CSV (WriteCSV), an
// XLSX workbook (WriteXLSX) and a SQLite table (WriteSQLite). Every tabular
// exporter uses the same header, the union of the rows' columns in order of
// first appearance, and leaves cells empty where a row lacks a column or the
// value is null.
//
// Example usage:
//
//	if err := output.WriteJSON("historias_raw.json", historias); err != nil {
//	    return err
//	}
//	rows := flatten.Flatten(historias)
//	if err := output.WriteCSV("historias.csv", rows); err != nil {
//	    return err
//	}
//	fmt.Println(output.SavedLine("historias.csv"))
package output
