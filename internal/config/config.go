package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds everything the triage commands need: where source data
// lives, where the database and export go, and the pipeline knobs.
type Config struct {
	DataDir  string `yaml:"dataDir"`
	Database string `yaml:"database"`
	Parquet  string `yaml:"parquet"`

	Source      SourceConfig      `yaml:"source"`
	Coordinates CoordinatesConfig `yaml:"coordinates"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
}

// SourceConfig describes the upstream BEA CAINC4 archive.
type SourceConfig struct {
	URL     string `yaml:"url"`
	Archive string `yaml:"archive"`
	CSVGlob string `yaml:"csvGlob"`
}

// CoordinatesConfig describes the Census gazetteer archive used to
// build the county coordinates table.
type CoordinatesConfig struct {
	URL     string `yaml:"url"`
	Archive string `yaml:"archive"`
}

// PipelineConfig holds the per-run pipeline parameters. A threshold of
// zero is meaningful (keep every county with any income), so the file
// value is tracked separately from the default.
type PipelineConfig struct {
	Year      int     `yaml:"year"`
	Threshold float64 `yaml:"threshold"`

	thresholdSet bool
}

// UnmarshalYAML records whether the file set a threshold at all, so an
// explicit zero is not mistaken for an omitted field.
func (p *PipelineConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Year      int      `yaml:"year"`
		Threshold *float64 `yaml:"threshold"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	p.Year = raw.Year
	if raw.Threshold != nil {
		p.Threshold = *raw.Threshold
		p.thresholdSet = true
	}
	return nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads and parses a YAML config file, filling in defaults for
// anything the file leaves out.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills in default values for optional fields
func (c *Config) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Database == "" {
		c.Database = "triage.duckdb"
	}
	if c.Parquet == "" {
		c.Parquet = "triage.parquet"
	}
	if c.Source.URL == "" {
		c.Source.URL = "https://apps.bea.gov/regional/zip/CAINC4.zip"
	}
	if c.Source.Archive == "" {
		c.Source.Archive = "CAINC4.zip"
	}
	if c.Source.CSVGlob == "" {
		c.Source.CSVGlob = "CAINC4__ALL_AREAS_*.csv"
	}
	if c.Coordinates.URL == "" {
		c.Coordinates.URL = "https://www2.census.gov/geo/docs/maps-data/data/gazetteer/2024_Gazetteer/2024_Gaz_counties_national.zip"
	}
	if c.Coordinates.Archive == "" {
		c.Coordinates.Archive = "county_coordinates.zip"
	}
	if c.Pipeline.Year == 0 {
		c.Pipeline.Year = 2023
	}
	if c.Pipeline.Threshold == 0 && !c.Pipeline.thresholdSet {
		c.Pipeline.Threshold = 1000
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Pipeline.Year < 1969 || c.Pipeline.Year > 9999 {
		return fmt.Errorf("pipeline year %d is not a four-digit reporting year", c.Pipeline.Year)
	}
	if c.Pipeline.Threshold < 0 {
		return fmt.Errorf("pipeline threshold must not be negative, got %v", c.Pipeline.Threshold)
	}
	return nil
}

// SourceCSVPath resolves the extracted CAINC4 CSV inside the data
// directory, or reports that the fetch step has not been run.
func (c *Config) SourceCSVPath() (string, error) {
	matches, err := filepath.Glob(filepath.Join(c.DataDir, c.Source.CSVGlob))
	if err != nil {
		return "", fmt.Errorf("bad source CSV glob %q: %w", c.Source.CSVGlob, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no source CSV matching %q under %s: run the fetch command first", c.Source.CSVGlob, c.DataDir)
	}
	return matches[0], nil
}
