package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	infra "github.com/postlabor/triage/internal/infra/duckdb"
)

// Load persists the filtered records: it replaces the triage table in
// the store, writes the Parquet export, and logs summary statistics
// for operator validation. The statistics are not part of the data
// model; a run that logs odd numbers still persisted exactly what the
// filter produced.
func Load(ctx context.Context, store Store, records []AggregatedRecord, parquetPath string, log zerolog.Logger) error {
	rows := make([]infra.TriageRow, len(records))
	for i, rec := range records {
		rows[i] = infra.TriageRow{
			FIPS:       rec.FIPS,
			Year:       rec.Year,
			PrimeEpop:  rec.WageRatio,
			CountyName: rec.CountyName,
			Wages:      rec.Wages,
			Property:   rec.Property,
			Transfers:  rec.Transfers,
		}
	}

	if err := store.ReplaceTriage(ctx, rows); err != nil {
		return fmt.Errorf("replacing triage table: %w", err)
	}

	if err := store.ExportParquet(ctx, infra.TriageTable, parquetPath); err != nil {
		return fmt.Errorf("writing parquet export %s: %w", parquetPath, err)
	}

	event := log.Info().
		Int("counties", len(records)).
		Str("parquet", parquetPath)
	// gonum's min/max panic on empty input.
	if len(records) > 0 {
		ratios := make([]float64, len(records))
		for i, rec := range records {
			ratios[i] = rec.WageRatio
		}
		event = event.
			Float64("avg_wage_ratio", stat.Mean(ratios, nil)).
			Float64("min_wage_ratio", floats.Min(ratios)).
			Float64("max_wage_ratio", floats.Max(ratios))
	}
	event.Msg("Replaced triage table")

	return nil
}
