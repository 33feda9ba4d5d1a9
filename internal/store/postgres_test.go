package store

import (
	"testing"

	"salarymap/internal/salary"
)

func TestColumnType(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"mean_monthly", "DOUBLE PRECISION"},
		{"std_yearly", "DOUBLE PRECISION"},
		{"numDataPoints", "DOUBLE PRECISION"},
		{"city_population", "DOUBLE PRECISION"},
		{"job", "TEXT"},
		{"location", "TEXT"},
		{"last_updated", "TEXT"},
	}

	for _, tt := range tests {
		if got := columnType(salary.ClassifyColumn(tt.column)); got != tt.want {
			t.Errorf("columnType(%s) = %s, want %s", tt.column, got, tt.want)
		}
	}
}

func TestCellValue(t *testing.T) {
	monetary := salary.ClassifyColumn("mean_monthly")
	textual := salary.ClassifyColumn("job")

	if got := cellValue(monetary, "1234.5"); got != 1234.5 {
		t.Errorf("cellValue(monetary, 1234.5) = %v", got)
	}
	if got := cellValue(monetary, ""); got != nil {
		t.Errorf("cellValue(monetary, empty) = %v, want nil", got)
	}
	if got := cellValue(monetary, "not-a-number"); got != nil {
		t.Errorf("cellValue(monetary, garbage) = %v, want nil", got)
	}
	if got := cellValue(textual, "nurse"); got != "nurse" {
		t.Errorf("cellValue(text, nurse) = %v", got)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`mean_monthly`); got != `"mean_monthly"` {
		t.Errorf("quoteIdent = %s", got)
	}
	if got := quoteIdent(`bad"name`); got != `"badname"` {
		t.Errorf("quoteIdent should strip embedded quotes, got %s", got)
	}
}
