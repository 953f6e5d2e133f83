package duckdb

import (
	"context"
	"fmt"
)

// TriageTable is the name of the destination table the pipeline rebuilds.
const TriageTable = "triage"

// TriageRow is one row of the triage table, in its fixed column order:
// fips, year, prime_epop, county_name, wages, property, transfers.
// prime_epop is the wage ratio, kept under its legacy name for
// downstream compatibility.
type TriageRow struct {
	FIPS       string
	Year       int
	PrimeEpop  float64
	CountyName string
	Wages      float64
	Property   float64
	Transfers  float64
}

const createTriageStagingSQL = `
	CREATE OR REPLACE TABLE triage_staging (
		fips        VARCHAR NOT NULL,
		year        INTEGER NOT NULL,
		prime_epop  DOUBLE  NOT NULL,
		county_name VARCHAR NOT NULL,
		wages       DOUBLE  NOT NULL,
		property    DOUBLE  NOT NULL,
		transfers   DOUBLE  NOT NULL
	)
`

// ReplaceTriage rebuilds the triage table wholesale from rows. The new
// rows go into a staging table that is swapped in within the same
// transaction, so a failure at any point leaves the previous table
// untouched and the destination is never half-written.
func (s *Store) ReplaceTriage(ctx context.Context, rows []TriageRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceTriage: begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTriageStagingSQL); err != nil {
		return fmt.Errorf("ReplaceTriage: create staging table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO triage_staging (fips, year, prime_epop, county_name, wages, property, transfers)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("ReplaceTriage: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.FIPS, row.Year, row.PrimeEpop, row.CountyName,
			row.Wages, row.Property, row.Transfers); err != nil {
			return fmt.Errorf("ReplaceTriage: inserting county %s: %w", row.FIPS, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS triage`); err != nil {
		return fmt.Errorf("ReplaceTriage: drop previous table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `ALTER TABLE triage_staging RENAME TO triage`); err != nil {
		return fmt.Errorf("ReplaceTriage: rename staging table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceTriage: commit: %w", err)
	}
	return nil
}

// QueryTriage reads the whole triage table back in its fixed column
// order, sorted by FIPS.
func (s *Store) QueryTriage(ctx context.Context) ([]TriageRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fips, year, prime_epop, county_name, wages, property, transfers
		 FROM triage ORDER BY fips`)
	if err != nil {
		return nil, fmt.Errorf("QueryTriage: %w", err)
	}
	defer rows.Close()

	return scanTriageRows(rows)
}
