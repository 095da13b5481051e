// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rowsource

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// identPattern matches safe SQL identifiers. Table and column names come
// from user input, so anything else is rejected instead of interpolated.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource queries one table of a SQLite database. Columns limits the
// selection when non-empty; Limit caps the number of rows (default 100).
type SQLiteSource struct {
	Path    string
	Table   string
	Columns []string
	Limit   int
}

// Rows runs the select and maps every row to a RawRecord in result order.
func (s *SQLiteSource) Rows(ctx context.Context) ([]types.RawRecord, error) {
	if !identPattern.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}
	for _, col := range s.Columns {
		if !identPattern.MatchString(col) {
			return nil, fmt.Errorf("invalid column name %q", col)
		}
	}

	limit := s.Limit
	if limit <= 0 {
		limit = 100
	}
	selection := "*"
	if len(s.Columns) > 0 {
		quoted := make([]string, len(s.Columns))
		for i, col := range s.Columns {
			quoted[i] = `"` + col + `"`
		}
		selection = strings.Join(quoted, ", ")
	}

	db, err := sql.Open("sqlite3", s.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening row database: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT %s FROM "%s" LIMIT %d`, selection, s.Table, limit)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var records []types.RawRecord
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		values := make(map[string]string, len(columns))
		for i, col := range columns {
			values[col] = cells[i].String
		}
		records = append(records, types.NewRawRecord(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}
