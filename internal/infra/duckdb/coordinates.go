package duckdb

import (
	"context"
	"fmt"
)

// CoordinatesTable is the name of the county coordinates table consumed
// by the map front-end.
const CoordinatesTable = "county_coordinates"

// CoordinateRow is one county's interior point from the Census
// gazetteer file.
type CoordinateRow struct {
	FIPS       string
	CountyName string
	Latitude   float64
	Longitude  float64
}

const createCoordinatesStagingSQL = `
	CREATE OR REPLACE TABLE county_coordinates_staging (
		fips        VARCHAR NOT NULL,
		county_name VARCHAR NOT NULL,
		latitude    DOUBLE  NOT NULL,
		longitude   DOUBLE  NOT NULL
	)
`

// ReplaceCoordinates rebuilds the county_coordinates table wholesale,
// with the same staging-and-swap pattern as the triage table.
func (s *Store) ReplaceCoordinates(ctx context.Context, rows []CoordinateRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceCoordinates: begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createCoordinatesStagingSQL); err != nil {
		return fmt.Errorf("ReplaceCoordinates: create staging table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO county_coordinates_staging (fips, county_name, latitude, longitude)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("ReplaceCoordinates: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.FIPS, row.CountyName, row.Latitude, row.Longitude); err != nil {
			return fmt.Errorf("ReplaceCoordinates: inserting county %s: %w", row.FIPS, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS county_coordinates`); err != nil {
		return fmt.Errorf("ReplaceCoordinates: drop previous table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `ALTER TABLE county_coordinates_staging RENAME TO county_coordinates`); err != nil {
		return fmt.Errorf("ReplaceCoordinates: rename staging table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceCoordinates: commit: %w", err)
	}
	return nil
}

// QueryCoordinates reads the county_coordinates table, sorted by FIPS.
func (s *Store) QueryCoordinates(ctx context.Context) ([]CoordinateRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fips, county_name, latitude, longitude FROM county_coordinates ORDER BY fips`)
	if err != nil {
		return nil, fmt.Errorf("QueryCoordinates: %w", err)
	}
	defer rows.Close()

	var out []CoordinateRow
	for rows.Next() {
		var r CoordinateRow
		if err := rows.Scan(&r.FIPS, &r.CountyName, &r.Latitude, &r.Longitude); err != nil {
			return nil, fmt.Errorf("scanning coordinate row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating coordinate rows: %w", err)
	}
	return out, nil
}
