// Package main provides the cleaner command that aggregates the
// per-city extracts into one table, runs the normalization pipeline
// and writes the final dataset.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"salarymap/internal/aggregate"
	"salarymap/internal/config"
	"salarymap/internal/logging"
	"salarymap/internal/normalize"
	"salarymap/internal/secrets"
	"salarymap/internal/store"
)

func main() {
	configFile := flag.String("config", "configs/salarymap.yaml", "Path to YAML configuration file")
	skipDB := flag.Bool("skip-db", false, "Skip the Postgres load even when a DSN is configured")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging.Level)

	cities, err := secrets.LoadCities(cfg.Scraper.Targets.CitiesFile)
	if err != nil {
		log.Error("failed to load cities", "error", err)
		os.Exit(1)
	}
	rates, err := secrets.LoadRates(cfg.Cleaner.RatesFile)
	if err != nil {
		log.Error("failed to load exchange rates", "error", err)
		os.Exit(1)
	}

	fmt.Println("🧹 salarymap cleaner")
	fmt.Printf("Raw data: %s\n", cfg.Cleaner.RawDir)
	fmt.Printf("Output: %s\n\n", cfg.Cleaner.CleanedPath())

	fileStore := store.NewFileStore(cfg.Cleaner.RawDir)

	table, err := aggregate.Cities(fileStore, cities)
	if err != nil {
		if errors.Is(err, aggregate.ErrMissingCityTable) {
			log.Error("a configured city has no extract; run the scraper first", "error", err)
		} else {
			log.Error("aggregation failed", "error", err)
		}
		os.Exit(1)
	}
	log.Info("aggregated city tables", "cities", len(cities), "rows", table.NumRows())

	stats, err := normalize.Clean(table, normalize.Options{
		Cutoff:             cfg.Cleaner.CutoffTime(),
		MinRowsPerLocation: cfg.Cleaner.MinRowsPerLocation,
		Rates:              rates,
	})
	if err != nil {
		if errors.Is(err, normalize.ErrTimestampMismatch) {
			log.Error("raw data violates the timestamp consistency assumption; refusing to produce output", "error", err)
		} else {
			log.Error("cleaning failed", "error", err)
		}
		os.Exit(1)
	}
	if stats.UnknownCurrencyRows > 0 {
		log.Warn("dropped rows with currencies missing from the rates file", "rows", stats.UnknownCurrencyRows)
	}

	if err := store.WriteTableFile(cfg.Cleaner.CleanedPath(), table); err != nil {
		log.Error("failed to write cleaned dataset", "error", err)
		os.Exit(1)
	}

	if cfg.Cleaner.PostgresURL != "" && !*skipDB {
		pg, err := store.NewPostgresWriter(cfg.Cleaner.PostgresURL, log)
		if err != nil {
			log.Error("failed to connect to Postgres", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.CreateTable(table); err != nil {
			log.Error("failed to create Postgres table", "error", err)
			os.Exit(1)
		}
		if err := pg.BatchInsert(table); err != nil {
			log.Error("failed to load rows into Postgres", "error", err)
			os.Exit(1)
		}
		log.Info("loaded cleaned dataset into Postgres", "rows", table.NumRows())
	}

	fmt.Printf("\n✅ Cleaned dataset written: %d rows in, %d rows out\n", stats.RowsIn, stats.RowsOut)
	fmt.Printf("   stale: %d, country-level: %d, sparse locations: %d, unknown currency: %d\n",
		stats.StaleRows, stats.CountryRows, stats.SparseLocationRows, stats.UnknownCurrencyRows)
}
