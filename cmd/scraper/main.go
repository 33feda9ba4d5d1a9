// Package main provides the scraper command that walks the city×job
// cross-product against the upstream salary API and persists per-city
// extracts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"salarymap/internal/config"
	"salarymap/internal/extractor"
	"salarymap/internal/logging"
	"salarymap/internal/salaryapi"
	"salarymap/internal/secrets"
	"salarymap/internal/store"
)

func main() {
	configFile := flag.String("config", "configs/salarymap.yaml", "Path to YAML configuration file")
	citiesFile := flag.String("cities", "", "City list JSON file (overrides config)")
	jobsFile := flag.String("jobs", "", "Job list JSON file (overrides config)")
	noProgress := flag.Bool("no-progress", false, "Disable the progress bar")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *citiesFile != "" {
		cfg.Scraper.Targets.CitiesFile = *citiesFile
	}
	if *jobsFile != "" {
		cfg.Scraper.Targets.JobsFile = *jobsFile
	}

	log := logging.New(cfg.Logging.Level)

	auth, err := secrets.LoadAuth(cfg.Scraper.SecretsDir)
	if err != nil {
		log.Error("failed to load auth context", "error", err)
		os.Exit(1)
	}
	cities, err := secrets.LoadCities(cfg.Scraper.Targets.CitiesFile)
	if err != nil {
		log.Error("failed to load cities", "error", err)
		os.Exit(1)
	}
	jobs, err := secrets.LoadJobs(cfg.Scraper.Targets.JobsFile)
	if err != nil {
		log.Error("failed to load jobs", "error", err)
		os.Exit(1)
	}

	fmt.Println("🕷️  salarymap scraper")
	fmt.Printf("Targets: %d cities × %d jobs = %d extractions\n", len(cities), len(jobs), len(cities)*len(jobs))
	fmt.Printf("Output: %s\n\n", cfg.Scraper.RawDir)

	client := salaryapi.NewClient(
		cfg.Scraper.BaseURL,
		auth,
		salaryapi.WithTimeout(cfg.Scraper.RequestTimeout()),
	)
	fileStore := store.NewFileStore(cfg.Scraper.RawDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []extractor.Option{extractor.WithPausePolicy(cfg.Scraper.Pause)}

	var pw progress.Writer
	if cfg.Logging.ShowProgress && !*noProgress {
		pw = progress.NewWriter()
		pw.SetOutputWriter(os.Stdout)
		pw.SetUpdateFrequency(250 * time.Millisecond)

		tracker := &progress.Tracker{
			Message: "Scraping salaries",
			Total:   int64(len(cities) * len(jobs)),
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		go pw.Render()

		opts = append(opts, extractor.WithProgress(tracker))
	}

	result, err := extractor.New(client, fileStore, log, opts...).Run(ctx, cities, jobs)
	if pw != nil {
		pw.Stop()
		for pw.IsRenderInProgress() {
			time.Sleep(50 * time.Millisecond)
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Error("scrape run interrupted; partial per-city outputs are intact")
		} else {
			log.Error("scrape run failed", "error", err)
		}
		os.Exit(1)
	}

	fmt.Printf("\n✅ Extracted %d records in %s\n", result.Extracted, result.Elapsed.Round(time.Second))
	if len(result.Problems) > 0 {
		fmt.Printf("⚠️  %d problematic extractions logged to %s\n",
			len(result.Problems), filepath.Join(cfg.Scraper.RawDir, "problematic_extractions.json"))
	}
}
