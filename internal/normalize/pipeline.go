// Package normalize applies the fixed-order cleaning pipeline that turns the
// unified table into the final dataset. Step order matters: each step
// depends on state produced by the one before it.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"salarymap/internal/salary"
)

// ErrTimestampMismatch indicates per-granularity timestamps that disagree
// within a row. The upstream source refreshes all granularities atomically,
// so divergence signals a deeper data problem and fails the whole run rather
// than skipping the row.
var ErrTimestampMismatch = errors.New("granularity timestamps disagree")

const (
	dailyTimestampColumn = "lastUpdateTimestamp_daily"
	timestampLayout      = "2006-01-02 15:04:05"
)

// Options parameterizes the pipeline. Rates maps a currency code to its
// multiplier into the reference currency.
type Options struct {
	Cutoff             time.Time
	MinRowsPerLocation int
	Rates              map[string]float64
}

// Stats reports how many rows each filtering step removed.
type Stats struct {
	RowsIn              int
	StaleRows           int
	CountryRows         int
	SparseLocationRows  int
	UnknownCurrencyRows int
	RowsOut             int
}

// Clean runs all eight steps in order, mutating the table in place. On a
// fatal error the table contents are unspecified and no rows should be used.
func Clean(table *salary.Table, opts Options) (Stats, error) {
	stats := Stats{RowsIn: table.NumRows()}

	if err := consolidateTimestamps(table, opts.Cutoff, &stats); err != nil {
		return stats, err
	}
	dropCountryRows(table, &stats)
	cleanLocationNames(table)
	applyMinimumSample(table, opts.MinRowsPerLocation, &stats)
	consolidateSampleCounts(table)
	table.DropColumns(func(col salary.Column) bool {
		return col.Category == salary.CategorySalaryType || col.Category == salary.CategoryInferred
	})
	table.DropColumns(func(col salary.Column) bool {
		switch col.Level {
		case salary.LevelHourly, salary.LevelDaily, salary.LevelWeekly:
			return true
		}
		return false
	})
	if err := convertCurrencies(table, opts.Rates, &stats); err != nil {
		return stats, err
	}

	stats.RowsOut = table.NumRows()
	return stats, nil
}

// consolidateTimestamps converts every per-granularity epoch-millisecond
// timestamp to a time, asserts that each row's timestamps all match the
// daily reference, collapses them into one last_updated column and drops
// rows last updated before the cutoff.
func consolidateTimestamps(table *salary.Table, cutoff time.Time, stats *Stats) error {
	timestampCols := columnsOf(table, salary.CategoryTimestamp)
	if len(timestampCols) == 0 {
		return fmt.Errorf("%w: no timestamp columns present", ErrTimestampMismatch)
	}

	type rowUpdate struct {
		row  salary.Row
		when time.Time
	}
	var kept []rowUpdate

	for _, row := range table.Rows() {
		present := make(map[string]int64)
		for _, name := range timestampCols {
			value, ok := row[name]
			if !ok || value == "" {
				continue
			}
			ms, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %s=%q in row %s", ErrTimestampMismatch, name, value, rowKey(row))
			}
			present[name] = ms
		}

		if len(present) == 0 {
			// No update timestamp at all: cannot pass the freshness filter.
			stats.StaleRows++
			continue
		}

		reference, ok := present[dailyTimestampColumn]
		if !ok {
			return fmt.Errorf("%w: row %s has no daily reference", ErrTimestampMismatch, rowKey(row))
		}
		for name, ms := range present {
			if ms != reference {
				return fmt.Errorf("%w: %s differs from daily in row %s", ErrTimestampMismatch, name, rowKey(row))
			}
		}

		when := time.UnixMilli(reference).UTC()
		if when.Before(cutoff) {
			stats.StaleRows++
			continue
		}
		kept = append(kept, rowUpdate{row: row, when: when})
	}

	table.DropColumns(func(col salary.Column) bool {
		return col.Category == salary.CategoryTimestamp
	})
	table.EnsureColumn("last_updated")

	table.FilterRows(func(salary.Row) bool { return false })
	for _, update := range kept {
		update.row["last_updated"] = update.when.Format(timestampLayout)
		table.AppendRow(update.row)
	}
	return nil
}

// dropCountryRows removes location-resolution artifacts that refer to whole
// countries instead of cities.
func dropCountryRows(table *salary.Table, stats *Stats) {
	before := table.NumRows()
	table.FilterRows(func(row salary.Row) bool {
		return row["type"] != "COUNTRY"
	})
	stats.CountryRows = before - table.NumRows()
}

// cleanLocationNames strips the "--…" disambiguation suffix the source
// appends to some locations.
func cleanLocationNames(table *salary.Table) {
	if !table.HasColumn("location") {
		return
	}
	for _, row := range table.Rows() {
		if idx := strings.Index(row["location"], "--"); idx >= 0 {
			row["location"] = row["location"][:idx]
		}
	}
}

// applyMinimumSample drops every row of any location with fewer than
// minRows remaining rows.
func applyMinimumSample(table *salary.Table, minRows int, stats *Stats) {
	counts := make(map[string]int)
	for _, row := range table.Rows() {
		counts[row["location"]]++
	}

	before := table.NumRows()
	table.FilterRows(func(row salary.Row) bool {
		return counts[row["location"]] >= minRows
	})
	stats.SparseLocationRows = before - table.NumRows()
}

// consolidateSampleCounts sums the per-granularity numDataPoints columns
// into one numDataPoints column and drops the originals.
func consolidateSampleCounts(table *salary.Table) {
	sampleCols := columnsOf(table, salary.CategorySampleCount)
	if len(sampleCols) == 0 {
		return
	}

	table.EnsureColumn("numDataPoints")
	for _, row := range table.Rows() {
		total := 0.0
		for _, name := range sampleCols {
			if v, err := strconv.ParseFloat(row[name], 64); err == nil {
				total += v
			}
		}
		row["numDataPoints"] = formatNumber(total)
	}

	table.DropColumns(func(col salary.Column) bool {
		return col.Category == salary.CategorySampleCount
	})
}

// convertCurrencies inner-joins the exchange-rate table on currency and
// rescales every monetary column into the reference currency, rounded to 2
// decimal places. Rows with an unknown currency are dropped and counted.
func convertCurrencies(table *salary.Table, rates map[string]float64, stats *Stats) error {
	if len(rates) == 0 {
		return errors.New("exchange rate table is empty")
	}

	before := table.NumRows()
	table.FilterRows(func(row salary.Row) bool {
		_, ok := rates[row["currency"]]
		return ok
	})
	stats.UnknownCurrencyRows = before - table.NumRows()

	monetaryCols := columnsOf(table, salary.CategoryMonetary)
	for _, row := range table.Rows() {
		rate := rates[row["currency"]]
		for _, name := range monetaryCols {
			value, ok := row[name]
			if !ok || value == "" {
				continue
			}
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			row[name] = formatNumber(math.Round(v*rate*100) / 100)
		}
	}

	table.DropColumns(func(col salary.Column) bool {
		return col.Name == "currency"
	})
	return nil
}

func columnsOf(table *salary.Table, category salary.Category) []string {
	var names []string
	for _, col := range table.Columns() {
		if col.Category == category {
			names = append(names, col.Name)
		}
	}
	return names
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rowKey(row salary.Row) string {
	return fmt.Sprintf("(%s, %s)", row["job"], row["location"])
}
