package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ExportParquet writes a full copy of table to a standalone Parquet
// file at path, for portability to tools that never touch the store.
func (s *Store) ExportParquet(ctx context.Context, table, path string) error {
	q := fmt.Sprintf("COPY (SELECT * FROM %s) TO '%s' (FORMAT 'parquet')",
		quoteIdent(table), escapeLiteral(path))
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ExportParquet: copying %s to %s: %w", table, path, err)
	}
	return nil
}

// ReadTriageParquet reloads a triage Parquet export, sorted by FIPS.
// Used by the round-trip check and the inspect command.
func (s *Store) ReadTriageParquet(ctx context.Context, path string) ([]TriageRow, error) {
	q := fmt.Sprintf(
		`SELECT fips, year, prime_epop, county_name, wages, property, transfers
		 FROM read_parquet('%s') ORDER BY fips`, escapeLiteral(path))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ReadTriageParquet: reading %s: %w", path, err)
	}
	defer rows.Close()

	return scanTriageRows(rows)
}

func scanTriageRows(rows *sql.Rows) ([]TriageRow, error) {
	var out []TriageRow
	for rows.Next() {
		var r TriageRow
		if err := rows.Scan(&r.FIPS, &r.Year, &r.PrimeEpop, &r.CountyName,
			&r.Wages, &r.Property, &r.Transfers); err != nil {
			return nil, fmt.Errorf("scanning triage row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating triage rows: %w", err)
	}
	return out, nil
}

// escapeLiteral doubles single quotes for embedding a path in a SQL
// string literal. COPY targets cannot be bound as parameters.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// quoteIdent wraps an identifier in double quotes.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
