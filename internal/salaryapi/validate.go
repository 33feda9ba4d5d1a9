package salaryapi

import "errors"

// Validation errors. Each names the missing piece of the response schema.
var (
	ErrMissingTopLevelKeys = errors.New("response is missing salaries or location")
	ErrMissingLocationKeys = errors.New("locationDetails is missing name or population")
	ErrMissingSalaryKeys   = errors.New("salaries is missing currency or salaries")
)

// ValidateResponse checks that a decoded response carries a well-formed
// salary record. Checks run in order and short-circuit; a nil return means
// the response is valid. Presence of granularity blocks is deliberately not
// checked here — an empty block set is Flatten's failure mode.
func ValidateResponse(resp *Response) error {
	if resp == nil || resp.Salaries == nil || resp.Location == nil {
		return ErrMissingTopLevelKeys
	}

	details := resp.Location.LocationDetails
	if details == nil || details.Name == nil || details.Population == nil {
		return ErrMissingLocationKeys
	}

	if resp.Salaries.Currency == nil || resp.Salaries.Salaries == nil {
		return ErrMissingSalaryKeys
	}

	return nil
}
