// Package secrets loads the run's read-only inputs: the auth context from
// local secret storage and the static target and exchange-rate lists. All of
// these are loaded once before the pipeline starts and never mutated.
package secrets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"salarymap/internal/salary"
	"salarymap/internal/salaryapi"
)

// LoadAuth reads cookies.json and headers.json from the secrets directory.
func LoadAuth(dir string) (salaryapi.AuthContext, error) {
	auth := salaryapi.AuthContext{}

	if err := readJSON(filepath.Join(dir, "cookies.json"), &auth.Cookies); err != nil {
		return auth, fmt.Errorf("failed to load cookies: %w", err)
	}
	if err := readJSON(filepath.Join(dir, "headers.json"), &auth.Headers); err != nil {
		return auth, fmt.Errorf("failed to load headers: %w", err)
	}

	return auth, nil
}

// LoadCities reads the city target list.
func LoadCities(path string) ([]salary.CityTarget, error) {
	var cities []salary.CityTarget
	if err := readJSON(path, &cities); err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("city list %s is empty", path)
	}
	return cities, nil
}

// LoadJobs reads the job title list.
func LoadJobs(path string) ([]string, error) {
	var jobs []string
	if err := readJSON(path, &jobs); err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("job list %s is empty", path)
	}
	return jobs, nil
}

// LoadRates reads the currency → multiplier table used to convert every
// monetary field into the reference currency.
func LoadRates(path string) (map[string]float64, error) {
	var rates map[string]float64
	if err := readJSON(path, &rates); err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("exchange rate table %s is empty", path)
	}
	return rates, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}
