// Package report renders a human-readable markdown summary of the cleaned
// dataset: one row per location with its sample counts and average monthly
// and yearly salary figures.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"salarymap/internal/salary"
)

type locationSummary struct {
	location    string
	countryCode string
	jobs        int
	dataPoints  float64
	meanMonthly float64
	meanYearly  float64
	monthlyN    int
	yearlyN     int
}

// Summary builds a markdown table over the cleaned dataset, one row per
// location, ordered by descending job count and tie-broken by name.
func Summary(table *salary.Table) string {
	byLocation := make(map[string]*locationSummary)

	for _, row := range table.Rows() {
		location := row["location"]
		summary, ok := byLocation[location]
		if !ok {
			summary = &locationSummary{location: location, countryCode: row["country_code"]}
			byLocation[location] = summary
		}

		summary.jobs++
		if v, err := strconv.ParseFloat(row["numDataPoints"], 64); err == nil {
			summary.dataPoints += v
		}
		if v, err := strconv.ParseFloat(row["mean_monthly"], 64); err == nil {
			summary.meanMonthly += v
			summary.monthlyN++
		}
		if v, err := strconv.ParseFloat(row["mean_yearly"], 64); err == nil {
			summary.meanYearly += v
			summary.yearlyN++
		}
	}

	summaries := make([]*locationSummary, 0, len(byLocation))
	for _, summary := range byLocation {
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].jobs != summaries[j].jobs {
			return summaries[i].jobs > summaries[j].jobs
		}
		return summaries[i].location < summaries[j].location
	})

	rows := [][]string{
		{"Location", "Country", "Jobs", "Samples", "Avg mean (monthly)", "Avg mean (yearly)"},
	}
	for _, s := range summaries {
		rows = append(rows, []string{
			s.location,
			s.countryCode,
			strconv.Itoa(s.jobs),
			strconv.FormatFloat(s.dataPoints, 'f', 0, 64),
			average(s.meanMonthly, s.monthlyN),
			average(s.meanYearly, s.yearlyN),
		})
	}

	return renderTable(rows)
}

func average(total float64, n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.FormatFloat(total/float64(n), 'f', 2, 64)
}

// renderTable lays out a markdown table with display-width-aware padding so
// columns line up regardless of the characters in location names.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	colCount := len(rows[0])
	colWidths := make([]int, colCount)
	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			if width := runewidth.StringWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}
			padding := colWidths[j] - runewidth.StringWidth(content)
			fmt.Fprintf(&sb, " %s%s |", content, strings.Repeat(" ", padding))
		}
		sb.WriteString("\n")
	}

	writeRow(rows[0])

	sb.WriteString("|")
	for j := 0; j < colCount; j++ {
		fmt.Fprintf(&sb, " %s |", strings.Repeat("-", colWidths[j]))
	}
	sb.WriteString("\n")

	for _, row := range rows[1:] {
		writeRow(row)
	}

	return sb.String()
}
