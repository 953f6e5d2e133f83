package pipeline

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
)

// Step represents a single stage of the build pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline stages: the run
// parameters going in, and each stage's product as it completes.
type State struct {
	RunID       string
	SourcePath  string
	Year        int
	Threshold   float64
	ParquetPath string
	Store       Store
	Log         zerolog.Logger

	Source     *SourceTable
	Wages      *ComponentSeries
	Property   *ComponentSeries
	Transfers  *ComponentSeries
	Aggregated []AggregatedRecord
	Final      []AggregatedRecord
}

// Stage 1: IngestStep reads and normalizes the raw source file.
type IngestStep struct{}

func (s *IngestStep) Execute(ctx context.Context, state *State) error {
	table, err := ReadSourceTable(state.SourcePath, state.Log)
	if err != nil {
		return err
	}
	state.Source = table
	return nil
}

// Stage 2: ExtractComponentsStep slices out the three income series.
type ExtractComponentsStep struct{}

func (s *ExtractComponentsStep) Execute(ctx context.Context, state *State) error {
	year := strconv.Itoa(state.Year)

	wages, err := ExtractComponent(state.Source, LineCodeWages, ComponentWages, year)
	if err != nil {
		return err
	}
	property, err := ExtractComponent(state.Source, LineCodeProperty, ComponentProperty, year)
	if err != nil {
		return err
	}
	transfers, err := ExtractComponent(state.Source, LineCodeTransfers, ComponentTransfers, year)
	if err != nil {
		return err
	}

	state.Log.Info().
		Int("wages_counties", len(wages.ByFIPS)).
		Int("property_counties", len(property.ByFIPS)).
		Int("transfers_counties", len(transfers.ByFIPS)).
		Str("year", year).
		Msg("Extracted income components")

	state.Wages, state.Property, state.Transfers = wages, property, transfers
	return nil
}

// Stage 3: AggregateStep outer-joins the series and derives the ratios.
type AggregateStep struct{}

func (s *AggregateStep) Execute(ctx context.Context, state *State) error {
	state.Aggregated = Aggregate(state.Wages, state.Property, state.Transfers, state.Year)
	state.Log.Info().Int("counties", len(state.Aggregated)).Msg("Aggregated components")
	return nil
}

// Stage 4: QualityFilterStep drops low-signal and incomplete records.
type QualityFilterStep struct{}

func (s *QualityFilterStep) Execute(ctx context.Context, state *State) error {
	final, err := ApplyQualityFilter(state.Aggregated, state.Threshold)
	if err != nil {
		return err
	}
	state.Log.Info().
		Int("kept", len(final)).
		Int("dropped", len(state.Aggregated)-len(final)).
		Float64("threshold", state.Threshold).
		Msg("Applied quality filter")
	state.Final = final
	return nil
}

// Stage 5: LoadStep persists the final table and Parquet export.
type LoadStep struct{}

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	return Load(ctx, state.Store, state.Final, state.ParquetPath, state.Log)
}
