package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Introspection queries backing the inspect command. All of them are
// read-only and safe against a database another process is serving.

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// ColumnStats holds the numeric summary of one column.
type ColumnStats struct {
	Min    float64
	Max    float64
	Avg    float64
	StdDev float64
	Median float64
}

// Tables lists the user tables in the database.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'main' ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("Tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("Tables: scanning name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Tables: %w", err)
	}
	return names, nil
}

// TableSchema returns the column definitions of a table.
func (s *Store) TableSchema(ctx context.Context, table string) ([]ColumnInfo, error) {
	q := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("TableSchema: %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid     int
			col     ColumnInfo
			dflt    sql.NullString
			notNull bool
			pk      bool
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("TableSchema: scanning column: %w", err)
		}
		col.NotNull = notNull
		col.PrimaryKey = pk
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TableSchema: %w", err)
	}
	return cols, nil
}

// RowCount returns the number of rows in a table.
func (s *Store) RowCount(ctx context.Context, table string) (int64, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))
	var n int64
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("RowCount: %s: %w", table, err)
	}
	return n, nil
}

// Sample returns up to limit rows of a table as formatted strings,
// preceded by the column names. Cell values are rendered with %v; this
// feeds an operator-facing listing, not a machine contract.
func (s *Store) Sample(ctx context.Context, table string, limit int) ([]string, [][]string, error) {
	q := fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("Sample: %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("Sample: columns of %s: %w", table, err)
	}

	var out [][]string
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("Sample: scanning row: %w", err)
		}
		rendered := make([]string, len(cols))
		for i, c := range cells {
			if c == nil {
				rendered[i] = "NULL"
			} else {
				rendered[i] = fmt.Sprintf("%v", c)
			}
		}
		out = append(out, rendered)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("Sample: %w", err)
	}
	return cols, out, nil
}

// NumericColumns returns the names of columns with a numeric type.
func (s *Store) NumericColumns(ctx context.Context, table string) ([]string, error) {
	cols, err := s.TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}
	var numeric []string
	for _, col := range cols {
		switch strings.ToUpper(col.Type) {
		case "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT",
			"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT",
			"FLOAT", "REAL", "DOUBLE", "DECIMAL":
			numeric = append(numeric, col.Name)
		default:
			if strings.HasPrefix(strings.ToUpper(col.Type), "DECIMAL") {
				numeric = append(numeric, col.Name)
			}
		}
	}
	return numeric, nil
}

// ColumnStatistics computes min/max/avg/stddev/median for one numeric
// column of a table.
func (s *Store) ColumnStatistics(ctx context.Context, table, column string) (ColumnStats, error) {
	q := fmt.Sprintf(
		`SELECT MIN(%[1]s)::DOUBLE, MAX(%[1]s)::DOUBLE, AVG(%[1]s)::DOUBLE,
		        COALESCE(STDDEV(%[1]s), 0)::DOUBLE, MEDIAN(%[1]s)::DOUBLE
		 FROM %[2]s`, quoteIdent(column), quoteIdent(table))

	var st ColumnStats
	if err := s.db.QueryRowContext(ctx, q).Scan(&st.Min, &st.Max, &st.Avg, &st.StdDev, &st.Median); err != nil {
		return ColumnStats{}, fmt.Errorf("ColumnStatistics: %s.%s: %w", table, column, err)
	}
	return st, nil
}
