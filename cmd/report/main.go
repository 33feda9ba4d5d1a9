// Package main provides the report command that renders a per-location
// markdown summary of the cleaned dataset.
package main

import (
	"flag"
	"fmt"
	"os"

	"salarymap/internal/config"
	"salarymap/internal/report"
	"salarymap/internal/salary"
)

func main() {
	configFile := flag.String("config", "configs/salarymap.yaml", "Path to YAML configuration file")
	inputFile := flag.String("input", "", "Cleaned CSV file (overrides config)")
	flag.Parse()

	path := *inputFile
	if path == "" {
		cfg, err := config.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
			os.Exit(1)
		}
		path = cfg.Cleaner.CleanedPath()
	}

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to open cleaned dataset: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	table, err := salary.ReadCSV(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to parse cleaned dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(report.Summary(table))
}
