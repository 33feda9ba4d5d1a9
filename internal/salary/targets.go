package salary

// CityTarget identifies one city to scrape. Location doubles as the city's
// identity across the target list and in file paths.
type CityTarget struct {
	Location    string `json:"city"`
	Country     string `json:"country"`
	Locale      string `json:"locale"`
	CountryCode string `json:"country_code"`
}

// ProblemEntry records one (job, city) pair that failed extraction for any
// reason. The full ordered list is written once at the end of a scrape run.
type ProblemEntry struct {
	Job      string `json:"job"`
	Location string `json:"location"`
}

// Record is the flat, ordered field list produced by flattening one
// response. Field order is the order fields appeared in the response, so
// derived CSV column order is stable across runs.
type Record struct {
	Fields []Field
}

// Field is one flattened name/value pair.
type Field struct {
	Name  string
	Value string
}

// Add appends a field.
func (r *Record) Add(name, value string) {
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.Fields)
}
