package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/postlabor/triage/internal/config"
	infra "github.com/postlabor/triage/internal/infra/duckdb"
	"github.com/postlabor/triage/internal/logger"
	"github.com/postlabor/triage/internal/pipeline"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "path to YAML config file (optional)")
	csvPath := flag.String("csv", "", "source CSV path (default: resolved from the data directory)")
	dbPath := flag.String("db", "", "DuckDB database path (overrides config)")
	parquetPath := flag.String("parquet", "", "Parquet export path (overrides config)")
	year := flag.Int("year", 0, "reporting year (overrides config)")
	threshold := flag.Float64("threshold", -1, "total income noise floor (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	if *parquetPath != "" {
		cfg.Parquet = *parquetPath
	}
	if *year != 0 {
		cfg.Pipeline.Year = *year
	}
	if *threshold >= 0 {
		cfg.Pipeline.Threshold = *threshold
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	source := *csvPath
	if source == "" {
		source, err = cfg.SourceCSVPath()
		if err != nil {
			log.Fatal().Err(err).Msg("Locating source data failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := infra.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Opening destination store failed")
	}
	defer store.Close()

	state := &pipeline.State{
		SourcePath:  source,
		Year:        cfg.Pipeline.Year,
		Threshold:   cfg.Pipeline.Threshold,
		ParquetPath: cfg.Parquet,
		Store:       store,
		Log:         log,
	}

	if err := pipeline.BuildTriage(ctx, state); err != nil {
		log.Fatal().Err(err).Msg("Triage build failed")
	}

	fmt.Printf("Wrote %s and %s (%d counties).\n", cfg.Database, cfg.Parquet, len(state.Final))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
