// Package aggregate merges the persisted per-city tables into the unified
// table the cleaning pipeline consumes.
package aggregate

import (
	"fmt"

	"salarymap/internal/salary"
	"salarymap/internal/store"
)

// ErrMissingCityTable is returned when any city's persisted table is absent.
// Aggregation is all-or-nothing: the minimum-sample logic downstream assumes
// complete input, so a missing city fails the cleaning run instead of being
// silently skipped.
var ErrMissingCityTable = store.ErrCityTableNotFound

// Cities reads each city's table in input-list order, tags every row with
// the city's country code and location, and concatenates the rows. Within a
// city, row order is the job order used at extraction time.
func Cities(fileStore *store.FileStore, cities []salary.CityTarget) (*salary.Table, error) {
	unified := salary.NewTable()

	for _, city := range cities {
		table, err := fileStore.LoadCityTable(city.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate city %s: %w", city.Location, err)
		}

		table.EnsureColumn("country_code")
		table.EnsureColumn("location")
		for _, row := range table.Rows() {
			row["country_code"] = city.CountryCode
			row["location"] = city.Location
		}

		unified.AppendTable(table)
	}

	return unified, nil
}
