// Package salaryapi talks to the upstream salary lookup service: one GET per
// (job, city) pair, response validation, and flattening of the per-granularity
// salary blocks into flat records.
package salaryapi

import "encoding/json"

// Response is the decoded upstream document. Required keys are modeled as
// pointers so validation can tell an absent key from an empty value, and the
// per-granularity blocks stay raw JSON so flattening preserves field order.
type Response struct {
	Location *LocationSection `json:"location"`
	Salaries *SalarySection   `json:"salaries"`
}

// LocationSection holds the resolved location for the queried city.
type LocationSection struct {
	LocationDetails *LocationDetails `json:"locationDetails"`
}

// LocationDetails describes the resolved location. Type distinguishes city
// rows from country-level resolution artifacts.
type LocationDetails struct {
	Name       *json.RawMessage `json:"name"`
	Type       *json.RawMessage `json:"type"`
	Population *json.RawMessage `json:"population"`
}

// SalarySection holds the currency and the per-granularity salary blocks.
type SalarySection struct {
	Currency *json.RawMessage `json:"currency"`
	Salaries *LevelBlocks     `json:"salaries"`
}

// LevelBlocks maps granularity level names (HOURLY, DAILY, ...) to their raw
// field blocks. An absent level is simply an absent key; blocks vary across
// job/city combinations.
type LevelBlocks map[string]json.RawMessage
