package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DeedleFake/pagegen/tmpl"
	_ "modernc.org/sqlite"
)

// DefaultTable is the table read from SQLite sources when none is
// configured.
const DefaultTable = "pages"

// loadSQLite reads every row of table, in rowid order, as a record.
// Column names become field names. TEXT values that hold a JSON array
// or object are decoded so that sections can iterate them.
func loadSQLite(ctx context.Context, path, table string) ([]tmpl.Context, error) {
	if table == "" {
		table = DefaultTable
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table)+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var records []tmpl.Context
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		record := make(tmpl.Context, len(cols))
		for i, col := range cols {
			record[col] = columnValue(vals[i])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}

func columnValue(v any) any {
	switch v := v.(type) {
	case []byte:
		return decodeJSONText(string(v))
	case string:
		return decodeJSONText(v)
	default:
		return v
	}
}

func decodeJSONText(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || (trimmed[0] != '[' && trimmed[0] != '{') {
		return s
	}

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return s
	}
	return v
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
