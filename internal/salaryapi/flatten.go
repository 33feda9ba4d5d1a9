package salaryapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"salarymap/internal/salary"
)

// ErrNoSalaryData is returned when a well-formed response has no parseable
// salary block at any granularity level.
var ErrNoSalaryData = errors.New("salaries not available at any granularity")

// Flatten converts a validated response into one flat record. Each field of
// each present granularity block becomes "<key>_<level>"; absent levels are
// skipped silently. The location and currency metadata fields are appended
// after the salary fields, matching the per-city CSV column layout.
func Flatten(resp *Response) (salary.Record, error) {
	var record salary.Record

	found := false
	for _, level := range salary.Levels {
		block, ok := (*resp.Salaries.Salaries)[string(level)]
		if !ok {
			continue
		}

		fields, err := blockFields(block)
		if err != nil {
			continue
		}

		for _, field := range fields {
			record.Add(field.Name+"_"+level.Suffix(), field.Value)
			found = true
		}
	}

	if !found {
		return salary.Record{}, ErrNoSalaryData
	}

	details := resp.Location.LocationDetails
	record.Add("city_name", rawValueString(details.Name))
	record.Add("type", rawValueString(details.Type))
	record.Add("city_population", rawValueString(details.Population))
	record.Add("currency", rawValueString(resp.Salaries.Currency))

	return record, nil
}

// blockFields walks one granularity block with a token decoder so fields come
// out in document order, which keeps derived CSV columns stable across runs.
func blockFields(block json.RawMessage) ([]salary.Field, error) {
	dec := json.NewDecoder(bytes.NewReader(block))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("granularity block is not an object")
	}

	var fields []salary.Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("granularity block has a non-string key")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, salary.Field{Name: key, Value: rawValueString(&value)})
	}

	return fields, nil
}

// rawValueString renders a raw JSON scalar as its cell value: strings are
// unquoted, numbers keep their source representation, null becomes empty.
// Composite values fall back to their compact JSON form.
func rawValueString(raw *json.RawMessage) string {
	if raw == nil {
		return ""
	}
	value := strings.TrimSpace(string(*raw))
	switch {
	case value == "" || value == "null":
		return ""
	case strings.HasPrefix(value, `"`):
		var s string
		if err := json.Unmarshal(*raw, &s); err == nil {
			return s
		}
	}
	return value
}
