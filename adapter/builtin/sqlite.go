/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package builtin

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nabbar/rga/adapter"
	"github.com/nabbar/rga/adapter/writing"
)

// NewSQLite dumps every user table of a SQLite database file as one line
// per row: "tbl: col='string value', col=123\n". Requires a real,
// seekable file path — SQLite's page format is not streamable, so this
// adapter refuses when IsRealFile is false.
func NewSQLite() *writing.Base {
	meta := adapter.Meta{
		Name:         "sqlite",
		Version:      1,
		Description:  "dumps SQLite database tables as greppable rows",
		FastMatchers: []string{"sqlite3", "sqlite", "db"},
		SlowMatchers: []string{"application/vnd.sqlite3", "application/x-sqlite3"},
	}
	return writing.New(meta, dumpSQLite)
}

func dumpSQLite(w io.Writer, info adapter.AdaptInfo) error {
	if !info.IsRealFile {
		return adapter.WrapError("sqlite", info.FilepathHint,
			adapter.IO.Error(fmt.Errorf("sqlite adapter requires a real file path")))
	}

	db, err := sql.Open("sqlite3", "file:"+info.FilepathHint+"?mode=ro&immutable=1")
	if err != nil {
		return adapter.WrapError("sqlite", info.FilepathHint, adapter.IO.Error(err))
	}
	defer func() { _ = db.Close() }()

	tables, err := listTables(db)
	if err != nil {
		return adapter.WrapError("sqlite", info.FilepathHint, adapter.Decode.Error(err))
	}

	for _, tbl := range tables {
		if err := dumpTable(w, db, tbl); err != nil {
			return adapter.WrapError("sqlite", info.FilepathHint, adapter.Decode.Error(err))
		}
	}

	return nil
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func dumpTable(w io.Writer, db *sql.DB, table string) error {
	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM "%s"`, strings.ReplaceAll(table, `"`, `""`)))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}

		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = formatCell(c, vals[i])
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", table, strings.Join(parts, ", ")); err != nil {
			return err
		}
	}
	return rows.Err()
}

func formatCell(col string, v interface{}) string {
	switch t := v.(type) {
	case nil:
		return fmt.Sprintf("%s=NULL", col)
	case []byte:
		return fmt.Sprintf("%s='%s'", col, string(t))
	case string:
		return fmt.Sprintf("%s='%s'", col, t)
	case int64, float64, bool:
		return fmt.Sprintf("%s=%v", col, t)
	default:
		return fmt.Sprintf("%s=%v", col, t)
	}
}
