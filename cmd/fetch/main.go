package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/postlabor/triage/internal/config"
	"github.com/postlabor/triage/internal/fetcher"
	"github.com/postlabor/triage/internal/logger"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "path to YAML config file (optional)")
	dataDir := flag.String("data-dir", "", "data directory (overrides config)")
	force := flag.Bool("force", false, "re-download even if the archive is already cached")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client := fetcher.New(log)
	archive := filepath.Join(cfg.DataDir, cfg.Source.Archive)

	if *force {
		removeIfPresent(archive, log)
	}

	if err := client.Download(ctx, cfg.Source.URL, archive); err != nil {
		log.Fatal().Err(err).Msg("Downloading source archive failed")
	}

	if _, err := client.ExtractZip(archive, cfg.DataDir); err != nil {
		log.Fatal().Err(err).Msg("Extracting source archive failed")
	}

	csvPath, err := cfg.SourceCSVPath()
	if err != nil {
		log.Fatal().Err(err).Msg("Archive did not contain the expected source CSV")
	}

	fmt.Printf("Source data ready: %s\n", csvPath)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func removeIfPresent(path string, log zerolog.Logger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("Could not remove cached archive")
	}
}
