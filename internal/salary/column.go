package salary

import "strings"

// Category is the semantic role of a column. Cleaning steps select columns
// by category and level instead of re-matching name patterns; ClassifyColumn
// is the only place column names are parsed.
type Category int

// Column categories.
const (
	CategoryOther Category = iota
	// CategoryMonetary columns are denominated in the row's currency
	// (mean*, std*, estimated*).
	CategoryMonetary
	// CategorySampleCount columns hold per-granularity numDataPoints values.
	CategorySampleCount
	// CategoryTimestamp columns hold per-granularity lastUpdateTimestamp
	// values in epoch milliseconds.
	CategoryTimestamp
	// CategorySalaryType columns repeat the granularity name and carry no
	// information.
	CategorySalaryType
	// CategoryInferred columns flag inferred values and carry no information.
	CategoryInferred
	// CategoryMeta columns identify the row: job, location, currency and the
	// consolidated fields produced by cleaning.
	CategoryMeta
)

// Column is a named table column tagged with its semantic category and
// granularity level (LevelNone when the name has no level suffix).
type Column struct {
	Name     string
	Category Category
	Level    Level
}

var metaColumns = map[string]struct{}{
	"job":             {},
	"city_name":       {},
	"type":            {},
	"city_population": {},
	"currency":        {},
	"location":        {},
	"country_code":    {},
	"last_updated":    {},
	"numDataPoints":   {},
}

var monetaryPrefixes = []string{"mean", "std", "estimated"}

// ClassifyColumn derives a column's category and level from its name.
func ClassifyColumn(name string) Column {
	base, level := splitLevelSuffix(name)
	col := Column{Name: name, Level: level}

	if level == LevelNone {
		if _, ok := metaColumns[name]; ok {
			col.Category = CategoryMeta
			return col
		}
	}

	switch base {
	case "lastUpdateTimestamp":
		col.Category = CategoryTimestamp
		return col
	case "numDataPoints":
		col.Category = CategorySampleCount
		return col
	case "salaryType":
		col.Category = CategorySalaryType
		return col
	case "inferred":
		col.Category = CategoryInferred
		return col
	}

	for _, prefix := range monetaryPrefixes {
		if strings.HasPrefix(base, prefix) {
			col.Category = CategoryMonetary
			return col
		}
	}

	col.Category = CategoryOther
	return col
}
