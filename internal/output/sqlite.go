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
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirseerhq/rni-relay/internal/flatten"

	_ "modernc.org/sqlite"
)

// TableName is the SQLite table holding the flattened historias.
const TableName = "historias"

// WriteSQLite writes rows into table historias of the database at path,
// replacing the table if it exists. Columns are declared without a type so
// each value keeps its own storage class.
func WriteSQLite(ctx context.Context, path string, rows []flatten.Row) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", cerr)
		}
	}()

	columns := flatten.Columns(rows)
	if len(columns) == 0 {
		columns = flatten.FixedColumns
	}

	names := sqliteColumnNames(columns)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(TableName)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createTableSQL(names)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(names))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for r, cells := range matrix(rows, columns) {
		for i, v := range cells {
			cells[i] = sqliteValue(v)
		}
		if _, err = stmt.ExecContext(ctx, cells...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", r+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// sqliteColumnNames returns a column name per header. SQLite compares
// identifiers case-insensitively, so a header equal to an earlier one but
// for case (reaccion_LOVE, reaccion_love) gets a _2, _3... suffix.
func sqliteColumnNames(columns []string) []string {
	names := make([]string, len(columns))
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		name := c
		for n := 2; seen[strings.ToLower(name)]; n++ {
			name = c + "_" + strconv.Itoa(n)
		}
		seen[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func createTableSQL(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(TableName), strings.Join(quoted, ", "))
}

func insertSQL(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(TableName), strings.Join(quoted, ", "), placeholders)
}

// quoteIdent quotes a SQL identifier. Reaction columns come from server data.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqliteValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	default:
		return x
	}
}
