package report

import (
	"strings"
	"testing"

	"salarymap/internal/salary"
)

func cleanedTable(rows ...salary.Row) *salary.Table {
	table := salary.NewTable()
	for _, name := range []string{"job", "location", "country_code", "numDataPoints", "mean_monthly", "mean_yearly"} {
		table.EnsureColumn(name)
	}
	for _, row := range rows {
		table.AppendRow(row)
	}
	return table
}

func TestSummary_AggregatesPerLocation(t *testing.T) {
	table := cleanedTable(
		salary.Row{"job": "nurse", "location": "Berlin", "country_code": "DE", "numDataPoints": "100", "mean_monthly": "4000", "mean_yearly": "48000"},
		salary.Row{"job": "teacher", "location": "Berlin", "country_code": "DE", "numDataPoints": "50", "mean_monthly": "3000", "mean_yearly": "36000"},
		salary.Row{"job": "nurse", "location": "Warsaw", "country_code": "PL", "numDataPoints": "80", "mean_monthly": "2000"},
	)

	out := Summary(table)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// header + separator + one row per location
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "| Location") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("separator line = %q", lines[1])
	}

	// Berlin has more jobs, so it sorts first.
	if !strings.Contains(lines[2], "Berlin") {
		t.Errorf("first data row = %q, want Berlin", lines[2])
	}
	if !strings.Contains(lines[2], "150") {
		t.Errorf("Berlin row missing summed samples: %q", lines[2])
	}
	if !strings.Contains(lines[2], "3500.00") {
		t.Errorf("Berlin row missing averaged monthly mean: %q", lines[2])
	}

	// Warsaw has no yearly figures, so they render as a dash.
	if !strings.Contains(lines[3], "Warsaw") || !strings.Contains(lines[3], "-") {
		t.Errorf("Warsaw row = %q", lines[3])
	}
}

func TestSummary_ColumnsAlign(t *testing.T) {
	table := cleanedTable(
		salary.Row{"job": "nurse", "location": "A", "country_code": "DE", "numDataPoints": "1", "mean_monthly": "1", "mean_yearly": "1"},
		salary.Row{"job": "nurse", "location": "A-much-longer-location-name", "country_code": "PL", "numDataPoints": "1", "mean_monthly": "1", "mean_yearly": "1"},
	)

	out := Summary(table)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	width := len(lines[0])
	for i, line := range lines {
		if len(line) != width {
			t.Errorf("line %d width %d differs from header width %d:\n%s", i, len(line), width, out)
		}
	}
}

func TestSummary_EmptyTable(t *testing.T) {
	out := Summary(salary.NewTable())
	if !strings.HasPrefix(out, "| Location") {
		t.Errorf("empty dataset should still render the header, got:\n%s", out)
	}
}
