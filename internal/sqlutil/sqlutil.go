// Package sqlutil holds small helpers shared by rook's sqlite-backed
// state.
package sqlutil

import (
	"database/sql"
	"strings"
)

// InClauseArgs returns a comma-separated list of "?" placeholders and the
// matching args slice for an IN clause.
//
// An empty items slice returns "NULL" and no args, so `IN (NULL)` matches
// nothing instead of producing invalid SQL.
func InClauseArgs(items []string) (placeholders string, args []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	ph := make([]string, len(items))
	args = make([]any, len(items))
	for i, item := range items {
		ph[i] = "?"
		args[i] = item
	}
	return strings.Join(ph, ", "), args
}

// Chunk splits items into slices of at most size elements. SQLite caps
// the number of bound variables per statement, so large IN clauses are
// issued in chunks.
func Chunk(items []string, size int) [][]string {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	var out [][]string
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	return append(out, items)
}

// ScanRows drains rows into a slice using the provided scanner and
// closes them.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
