package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	infra "github.com/postlabor/triage/internal/infra/duckdb"
	"github.com/postlabor/triage/internal/logger"
)

// inspect is a read-only examiner for the triage database: tables,
// schemas, row counts, sample rows, and numeric column statistics.
// Output goes to stdout for the operator; it is not a machine contract.
func main() {
	log := logger.New()

	dbPath := flag.String("db", "triage.duckdb", "DuckDB database path")
	table := flag.String("table", "", "inspect only this table")
	limit := flag.Int("limit", 10, "sample rows to show per table")
	flag.Parse()

	if _, err := os.Stat(*dbPath); err != nil {
		log.Fatal().Str("db", *dbPath).Msg("Database not found: run the build command first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := infra.OpenReadOnly(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Opening database failed")
	}
	defer store.Close()

	tables, err := store.Tables(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Listing tables failed")
	}
	if len(tables) == 0 {
		fmt.Println("No tables found in database.")
		return
	}

	if *table != "" {
		if err := inspectTable(ctx, store, *table, *limit); err != nil {
			log.Fatal().Err(err).Str("table", *table).Msg("Inspecting table failed")
		}
		return
	}

	fmt.Printf("Examining database: %s\n\nFound %d tables:\n", *dbPath, len(tables))
	for i, name := range tables {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
	fmt.Println()

	for _, name := range tables {
		if err := inspectTable(ctx, store, name, *limit); err != nil {
			log.Fatal().Err(err).Str("table", name).Msg("Inspecting table failed")
		}
	}
}

func inspectTable(ctx context.Context, store *infra.Store, table string, limit int) error {
	fmt.Printf("===== TABLE: %s =====\n\nSchema:\n", table)

	schema, err := store.TableSchema(ctx, table)
	if err != nil {
		return err
	}
	for _, col := range schema {
		suffix := ""
		if col.NotNull {
			suffix = " NOT NULL"
		}
		if col.PrimaryKey {
			suffix += " PRIMARY KEY"
		}
		fmt.Printf("  %s %s%s\n", col.Name, col.Type, suffix)
	}

	count, err := store.RowCount(ctx, table)
	if err != nil {
		return err
	}
	fmt.Printf("\nRow count: %d\n", count)

	cols, rows, err := store.Sample(ctx, table, limit)
	if err != nil {
		return err
	}
	fmt.Printf("\nSample (first %d rows):\n  %s\n", len(rows), strings.Join(cols, " | "))
	for _, row := range rows {
		fmt.Printf("  %s\n", strings.Join(row, " | "))
	}

	numeric, err := store.NumericColumns(ctx, table)
	if err != nil {
		return err
	}
	if len(numeric) > 0 && count > 0 {
		fmt.Println("\nNumeric column statistics:")
		for _, col := range numeric {
			st, err := store.ColumnStatistics(ctx, table, col)
			if err != nil {
				return err
			}
			fmt.Printf("  %s: min=%.4f max=%.4f avg=%.4f stddev=%.4f median=%.4f\n",
				col, st.Min, st.Max, st.Avg, st.StdDev, st.Median)
		}
	}

	fmt.Println()
	return nil
}
