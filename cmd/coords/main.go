package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/postlabor/triage/internal/config"
	"github.com/postlabor/triage/internal/fetcher"
	"github.com/postlabor/triage/internal/gazetteer"
	infra "github.com/postlabor/triage/internal/infra/duckdb"
	"github.com/postlabor/triage/internal/logger"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "path to YAML config file (optional)")
	dataDir := flag.String("data-dir", "", "data directory (overrides config)")
	dbPath := flag.String("db", "", "DuckDB database path (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client := fetcher.New(log)
	archive := filepath.Join(cfg.DataDir, cfg.Coordinates.Archive)

	if err := client.Download(ctx, cfg.Coordinates.URL, archive); err != nil {
		log.Fatal().Err(err).Msg("Downloading gazetteer archive failed")
	}

	files, err := client.ExtractZip(archive, cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Extracting gazetteer archive failed")
	}

	txtPath := firstWithSuffix(files, ".txt")
	if txtPath == "" {
		log.Fatal().Str("archive", archive).Msg("Gazetteer archive contained no text file")
	}

	f, err := os.Open(txtPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Opening gazetteer file failed")
	}
	rows, err := gazetteer.ParseCounties(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Parsing gazetteer file failed")
	}
	log.Info().Int("counties", len(rows)).Msg("Parsed county coordinates")

	store, err := infra.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Opening destination store failed")
	}
	defer store.Close()

	if err := store.ReplaceCoordinates(ctx, rows); err != nil {
		log.Fatal().Err(err).Msg("Replacing coordinates table failed")
	}

	fmt.Printf("Wrote %d county coordinates to %s.\n", len(rows), cfg.Database)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func firstWithSuffix(paths []string, suffix string) string {
	for _, p := range paths {
		if strings.HasSuffix(strings.ToLower(p), suffix) {
			return p
		}
	}
	return ""
}
