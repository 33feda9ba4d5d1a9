// Package store persists the pipeline's on-disk artifacts: per-(city,job)
// raw responses, per-city CSV tables, the problem log and the cleaned
// dataset, plus an optional Postgres mirror of the cleaned table.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"salarymap/internal/salary"
)

// ErrCityTableNotFound is returned when a city's persisted table is absent.
var ErrCityTableNotFound = errors.New("city table not found")

// FileStore lays out the raw-data directory the way the cleaning stage
// expects it:
//
//	<base>/<location>/txt_data/salaries_<location>_<job>.json
//	<base>/<location>/csv_data/salaries_<location>.csv
//	<base>/problematic_extractions.json
type FileStore struct {
	baseDir string
}

// NewFileStore creates a store rooted at baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// SaveRaw persists the verbatim response body for one (city, job) pair.
// Re-running the scraper overwrites prior output for the same pair.
func (s *FileStore) SaveRaw(location, job string, body []byte) error {
	dir := filepath.Join(s.baseDir, location, "txt_data")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create raw directory: %w", err)
	}

	name := fmt.Sprintf("salaries_%s_%s.json", location, strings.ReplaceAll(job, " ", "-"))
	if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
		return fmt.Errorf("failed to write raw response: %w", err)
	}
	return nil
}

// CityTablePath returns the CSV path for a city's table.
func (s *FileStore) CityTablePath(location string) string {
	return filepath.Join(s.baseDir, location, "csv_data", "salaries_"+location+".csv")
}

// SaveCityTable persists one city's table, overwriting any prior run.
func (s *FileStore) SaveCityTable(location string, table *salary.Table) error {
	path := s.CityTablePath(location)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create csv directory: %w", err)
	}
	return WriteTableFile(path, table)
}

// LoadCityTable reads a city's persisted table. A missing file yields
// ErrCityTableNotFound so the cleaning stage can fail loudly instead of
// aggregating a partial dataset.
func (s *FileStore) LoadCityTable(location string) (*salary.Table, error) {
	file, err := os.Open(s.CityTablePath(location))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCityTableNotFound, location)
		}
		return nil, err
	}
	defer file.Close()

	return salary.ReadCSV(file)
}

// SaveProblemLog writes the run's ordered failure list once.
func (s *FileStore) SaveProblemLog(entries []salary.ProblemEntry) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create raw directory: %w", err)
	}

	if entries == nil {
		entries = []salary.ProblemEntry{}
	}
	payload, err := json.MarshalIndent(map[string][]salary.ProblemEntry{
		"problematic_extractions": entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal problem log: %w", err)
	}

	path := filepath.Join(s.baseDir, "problematic_extractions.json")
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write problem log: %w", err)
	}
	return nil
}

// WriteTableFile writes a table as CSV, creating parent directories.
func WriteTableFile(path string, table *salary.Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	return table.WriteCSV(file)
}
