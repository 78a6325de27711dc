package apex

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Tables lists the user tables of the database.
func (s *Session) Tables(ctx context.Context) ([]string, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableRows iterates a "SELECT * FROM table" result as column->value maps.
type TableRows struct {
	rows    *sql.Rows
	cancel  context.CancelFunc
	columns []string
	current map[string]interface{}
	err     error
}

// QueryTable runs SELECT * against a table. The name must be a plain identifier
// that exists in the database.
func (s *Session) QueryTable(ctx context.Context, table string) (*TableRows, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrBadTableName, table)
	}
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, t := range tables {
		if t == table {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: table %s", ErrNotFound, table)
	}

	qctx, cancel := s.queryContext(ctx)
	rows, err := s.db.QueryContext(qctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		cancel()
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	return &TableRows{rows: rows, cancel: cancel, columns: cols}, nil
}

// Columns returns the column names in select order.
func (t *TableRows) Columns() []string { return t.columns }

// Next advances to the next row. A row that fails to scan stops iteration; see Err.
func (t *TableRows) Next() bool {
	if !t.rows.Next() {
		return false
	}
	values := make([]interface{}, len(t.columns))
	ptrs := make([]interface{}, len(t.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := t.rows.Scan(ptrs...); err != nil {
		t.err = err
		return false
	}
	row := make(map[string]interface{}, len(t.columns))
	for i, col := range t.columns {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
		} else {
			row[col] = values[i]
		}
	}
	t.current = row
	return true
}

// Row returns the current row.
func (t *TableRows) Row() map[string]interface{} { return t.current }

// Err reports the first scan or iteration error.
func (t *TableRows) Err() error {
	if t.err != nil {
		return t.err
	}
	return t.rows.Err()
}

// Close releases the result set.
func (t *TableRows) Close() error {
	defer t.cancel()
	return t.rows.Close()
}
