// Package config provides configuration management for the salarymap
// pipeline binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL    = errors.New("scraper.base_url is required")
	ErrMissingCitiesFile = errors.New("scraper.targets.cities_file is required")
	ErrMissingJobsFile   = errors.New("scraper.targets.jobs_file is required")
	ErrMissingSecretsDir = errors.New("scraper.secrets_dir is required")
	ErrMissingRawDir     = errors.New("raw data directory is required")
	ErrInvalidPause      = errors.New("pause bounds must satisfy 0 <= min <= max")
	ErrInvalidTimeout    = errors.New("scraper.request_timeout_sec must be at least 1")
	ErrMissingOutputDir  = errors.New("cleaner.output.dir is required")
	ErrMissingRatesFile  = errors.New("cleaner.rates_file is required")
	ErrInvalidMinRows    = errors.New("cleaner.min_rows_per_location must be at least 1")
	ErrInvalidCutoff     = errors.New("cleaner.freshness_cutoff must be a YYYY-MM-DD date")
	ErrInvalidLogLevel   = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config is the complete pipeline configuration.
type Config struct {
	Scraper ScraperConfig `yaml:"scraper"`
	Cleaner CleanerConfig `yaml:"cleaner"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScraperConfig configures the extraction stage.
type ScraperConfig struct {
	BaseURL           string        `yaml:"base_url"`
	SecretsDir        string        `yaml:"secrets_dir"`
	Targets           TargetsConfig `yaml:"targets"`
	RawDir            string        `yaml:"raw_dir"`
	Pause             PauseConfig   `yaml:"pause"`
	RequestTimeoutSec int           `yaml:"request_timeout_sec"`
}

// TargetsConfig points at the static target lists.
type TargetsConfig struct {
	CitiesFile string `yaml:"cities_file"`
	JobsFile   string `yaml:"jobs_file"`
}

// PauseConfig bounds the randomized pauses taken before each city and each
// job request. Values are seconds; the exact draw is rate-limiting policy,
// not a correctness requirement.
type PauseConfig struct {
	CityMinSec int `yaml:"city_min_sec"`
	CityMaxSec int `yaml:"city_max_sec"`
	JobMinSec  int `yaml:"job_min_sec"`
	JobMaxSec  int `yaml:"job_max_sec"`
}

// CleanerConfig configures the aggregation and normalization stage.
type CleanerConfig struct {
	RawDir             string       `yaml:"raw_dir"`
	Output             OutputConfig `yaml:"output"`
	RatesFile          string       `yaml:"rates_file"`
	FreshnessCutoff    string       `yaml:"freshness_cutoff"`
	MinRowsPerLocation int          `yaml:"min_rows_per_location"`
	PostgresURL        string       `yaml:"postgres_url"`
}

// OutputConfig locates the cleaned artifact.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level"`
	ShowProgress bool   `yaml:"show_progress"`
}

// LoadConfig loads and validates configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields with the defaults the pipeline originally
// ran with.
func (c *Config) ApplyDefaults() {
	if c.Scraper.SecretsDir == "" {
		c.Scraper.SecretsDir = "secrets"
	}
	if c.Scraper.Targets.CitiesFile == "" {
		c.Scraper.Targets.CitiesFile = "files/cities.json"
	}
	if c.Scraper.Targets.JobsFile == "" {
		c.Scraper.Targets.JobsFile = "files/jobs.json"
	}
	if c.Scraper.RawDir == "" {
		c.Scraper.RawDir = "data/raw_data"
	}
	if c.Scraper.Pause == (PauseConfig{}) {
		c.Scraper.Pause = PauseConfig{CityMinSec: 5, CityMaxSec: 10, JobMinSec: 2, JobMaxSec: 4}
	}
	if c.Scraper.RequestTimeoutSec == 0 {
		c.Scraper.RequestTimeoutSec = 30
	}

	if c.Cleaner.RawDir == "" {
		c.Cleaner.RawDir = c.Scraper.RawDir
	}
	if c.Cleaner.Output.Dir == "" {
		c.Cleaner.Output.Dir = "data/cleaned_data"
	}
	if c.Cleaner.Output.File == "" {
		c.Cleaner.Output.File = "final_salaries_data.csv"
	}
	if c.Cleaner.RatesFile == "" {
		c.Cleaner.RatesFile = "files/exchange_rates.json"
	}
	if c.Cleaner.FreshnessCutoff == "" {
		c.Cleaner.FreshnessCutoff = "2022-01-01"
	}
	if c.Cleaner.MinRowsPerLocation == 0 {
		c.Cleaner.MinRowsPerLocation = 20
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scraper.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Scraper.SecretsDir == "" {
		return ErrMissingSecretsDir
	}
	if c.Scraper.Targets.CitiesFile == "" {
		return ErrMissingCitiesFile
	}
	if c.Scraper.Targets.JobsFile == "" {
		return ErrMissingJobsFile
	}
	if c.Scraper.RawDir == "" || c.Cleaner.RawDir == "" {
		return ErrMissingRawDir
	}

	if err := c.Scraper.Pause.validate(); err != nil {
		return err
	}

	if c.Scraper.RequestTimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Cleaner.Output.Dir == "" {
		return ErrMissingOutputDir
	}
	if c.Cleaner.RatesFile == "" {
		return ErrMissingRatesFile
	}
	if c.Cleaner.MinRowsPerLocation < 1 {
		return ErrInvalidMinRows
	}
	if _, err := time.Parse("2006-01-02", c.Cleaner.FreshnessCutoff); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCutoff, c.Cleaner.FreshnessCutoff)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

func (p PauseConfig) validate() error {
	bounds := [][2]int{
		{p.CityMinSec, p.CityMaxSec},
		{p.JobMinSec, p.JobMaxSec},
	}
	for _, b := range bounds {
		if b[0] < 0 || b[1] < b[0] {
			return fmt.Errorf("%w: min=%d max=%d", ErrInvalidPause, b[0], b[1])
		}
	}
	return nil
}

// CutoffTime returns the freshness cutoff as a UTC time. The config must
// have been validated first.
func (c *CleanerConfig) CutoffTime() time.Time {
	t, _ := time.Parse("2006-01-02", c.FreshnessCutoff)
	return t.UTC()
}

// RequestTimeout returns the per-request timeout.
func (s *ScraperConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

// CleanedPath returns the path of the final cleaned artifact.
func (c *CleanerConfig) CleanedPath() string {
	return filepath.Join(c.Output.Dir, c.Output.File)
}
