package duckdb

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
)

func testRows() []TriageRow {
	return []TriageRow{
		{FIPS: "01001", Year: 2023, PrimeEpop: 0.7, CountyName: "Autauga, AL", Wages: 7000, Property: 2000, Transfers: 1000},
		{FIPS: "01005", Year: 2023, PrimeEpop: 1.0, CountyName: "Barbour, AL", Wages: 5000, Property: 0, Transfers: 0},
	}
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "triage.duckdb")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func TestReplaceAndQueryTriage(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceTriage(ctx, testRows()); err != nil {
		t.Fatalf("ReplaceTriage failed: %v", err)
	}

	got, err := store.QueryTriage(ctx)
	if err != nil {
		t.Fatalf("QueryTriage failed: %v", err)
	}
	if !reflect.DeepEqual(got, testRows()) {
		t.Errorf("QueryTriage = %+v, want %+v", got, testRows())
	}
}

func TestReplaceTriage_ReplacesNotAppends(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceTriage(ctx, testRows()); err != nil {
		t.Fatalf("first ReplaceTriage failed: %v", err)
	}

	second := []TriageRow{
		{FIPS: "20001", Year: 2023, PrimeEpop: 0.5, CountyName: "Allen, KS", Wages: 600, Property: 300, Transfers: 300},
	}
	if err := store.ReplaceTriage(ctx, second); err != nil {
		t.Fatalf("second ReplaceTriage failed: %v", err)
	}

	got, err := store.QueryTriage(ctx)
	if err != nil {
		t.Fatalf("QueryTriage failed: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("after rebuild, QueryTriage = %+v, want only the new rows", got)
	}
}

func TestReplaceTriage_IdempotentRebuild(t *testing.T) {
	store, dir := openTestStore(t)
	ctx := context.Background()

	var tables [][]TriageRow
	var exports [][]TriageRow
	for run := 0; run < 2; run++ {
		if err := store.ReplaceTriage(ctx, testRows()); err != nil {
			t.Fatalf("run %d: ReplaceTriage failed: %v", run+1, err)
		}
		parquetPath := filepath.Join(dir, fmt.Sprintf("triage-%d.parquet", run+1))
		if err := store.ExportParquet(ctx, TriageTable, parquetPath); err != nil {
			t.Fatalf("run %d: ExportParquet failed: %v", run+1, err)
		}

		got, err := store.QueryTriage(ctx)
		if err != nil {
			t.Fatalf("run %d: QueryTriage failed: %v", run+1, err)
		}
		tables = append(tables, got)

		reloaded, err := store.ReadTriageParquet(ctx, parquetPath)
		if err != nil {
			t.Fatalf("run %d: ReadTriageParquet failed: %v", run+1, err)
		}
		exports = append(exports, reloaded)
	}

	if !reflect.DeepEqual(tables[0], tables[1]) {
		t.Errorf("rebuilding with unchanged rows changed the table:\nfirst:  %+v\nsecond: %+v", tables[0], tables[1])
	}
	if !reflect.DeepEqual(exports[0], exports[1]) {
		t.Errorf("rebuilding with unchanged rows changed the export:\nfirst:  %+v\nsecond: %+v", exports[0], exports[1])
	}
}

func TestParquetRoundTrip(t *testing.T) {
	store, dir := openTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceTriage(ctx, testRows()); err != nil {
		t.Fatalf("ReplaceTriage failed: %v", err)
	}

	parquetPath := filepath.Join(dir, "triage.parquet")
	if err := store.ExportParquet(ctx, TriageTable, parquetPath); err != nil {
		t.Fatalf("ExportParquet failed: %v", err)
	}

	fromParquet, err := store.ReadTriageParquet(ctx, parquetPath)
	if err != nil {
		t.Fatalf("ReadTriageParquet failed: %v", err)
	}
	fromTable, err := store.QueryTriage(ctx)
	if err != nil {
		t.Fatalf("QueryTriage failed: %v", err)
	}

	if !reflect.DeepEqual(fromParquet, fromTable) {
		t.Errorf("parquet export differs from table:\nparquet: %+v\ntable:   %+v", fromParquet, fromTable)
	}
}

func TestReplaceAndQueryCoordinates(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	rows := []CoordinateRow{
		{FIPS: "01001", CountyName: "Autauga County", Latitude: 32.53, Longitude: -86.64},
		{FIPS: "01003", CountyName: "Baldwin County", Latitude: 30.66, Longitude: -87.75},
	}
	if err := store.ReplaceCoordinates(ctx, rows); err != nil {
		t.Fatalf("ReplaceCoordinates failed: %v", err)
	}

	got, err := store.QueryCoordinates(ctx)
	if err != nil {
		t.Fatalf("QueryCoordinates failed: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("QueryCoordinates = %+v, want %+v", got, rows)
	}
}

func TestInspectionQueries(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceTriage(ctx, testRows()); err != nil {
		t.Fatalf("ReplaceTriage failed: %v", err)
	}

	tables, err := store.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	if len(tables) != 1 || tables[0] != TriageTable {
		t.Errorf("Tables = %v, want [triage]", tables)
	}

	schema, err := store.TableSchema(ctx, TriageTable)
	if err != nil {
		t.Fatalf("TableSchema failed: %v", err)
	}
	if len(schema) != 7 {
		t.Fatalf("schema has %d columns, want 7: %+v", len(schema), schema)
	}
	if schema[0].Name != "fips" || schema[2].Name != "prime_epop" {
		t.Errorf("column order = %+v, want fips first and prime_epop third", schema)
	}

	count, err := store.RowCount(ctx, TriageTable)
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("RowCount = %d, want 2", count)
	}

	cols, sample, err := store.Sample(ctx, TriageTable, 10)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(cols) != 7 || len(sample) != 2 {
		t.Errorf("Sample = %d cols, %d rows, want 7 and 2", len(cols), len(sample))
	}

	numeric, err := store.NumericColumns(ctx, TriageTable)
	if err != nil {
		t.Fatalf("NumericColumns failed: %v", err)
	}
	// year, prime_epop, wages, property, transfers are numeric.
	if len(numeric) != 5 {
		t.Errorf("NumericColumns = %v, want 5 columns", numeric)
	}

	stats, err := store.ColumnStatistics(ctx, TriageTable, "prime_epop")
	if err != nil {
		t.Fatalf("ColumnStatistics failed: %v", err)
	}
	if stats.Min != 0.7 || stats.Max != 1.0 {
		t.Errorf("prime_epop stats = %+v, want min 0.7 and max 1.0", stats)
	}
}

func TestOpenReadOnly_MissingDatabase(t *testing.T) {
	_, err := OpenReadOnly(filepath.Join(t.TempDir(), "absent.duckdb"))
	if err == nil {
		t.Fatal("expected error opening a missing database read-only")
	}
}
