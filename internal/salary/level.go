// Package salary defines the domain model shared by the scrape and clean
// stages: granularity levels, tagged columns and the row-indexed tables that
// move between them as CSV checkpoints.
package salary

import "strings"

// Level is one of the salary reporting periods offered by the upstream API.
type Level string

// Granularity levels, in the order the upstream reports them.
const (
	LevelHourly  Level = "HOURLY"
	LevelDaily   Level = "DAILY"
	LevelWeekly  Level = "WEEKLY"
	LevelMonthly Level = "MONTHLY"
	LevelYearly  Level = "YEARLY"

	// LevelNone marks columns that carry no granularity suffix.
	LevelNone Level = ""
)

// Levels lists every granularity level in reporting order.
var Levels = []Level{LevelHourly, LevelDaily, LevelWeekly, LevelMonthly, LevelYearly}

// Suffix returns the lowercase form used in flattened column names,
// e.g. "mean_monthly".
func (l Level) Suffix() string {
	return strings.ToLower(string(l))
}

// splitLevelSuffix splits a column name into its base name and granularity
// level. Names without a recognized suffix return the full name and LevelNone.
func splitLevelSuffix(name string) (string, Level) {
	for _, level := range Levels {
		suffix := "_" + level.Suffix()
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix), level
		}
	}
	return name, LevelNone
}
