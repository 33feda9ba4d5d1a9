package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"salarymap/internal/logging"
	"salarymap/internal/salary"
	"salarymap/internal/salaryapi"
	"salarymap/internal/store"
)

// fakeClient serves canned bodies keyed by "job|location". Missing keys act
// like transport failures.
type fakeClient struct {
	bodies map[string]string
	calls  []string
}

var errUpstream = errors.New("upstream unavailable")

func (f *fakeClient) LookupSalary(ctx context.Context, job string, city salary.CityTarget) (*salaryapi.Response, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	key := job + "|" + city.Location
	f.calls = append(f.calls, key)

	body, ok := f.bodies[key]
	if !ok {
		return nil, nil, errUpstream
	}

	var resp salaryapi.Response
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, []byte(body), err
	}
	return &resp, []byte(body), nil
}

func goodBody(mean int) string {
	return fmt.Sprintf(`{
		"location": {"locationDetails": {"name": "X", "type": "CITY", "population": 100}},
		"salaries": {"currency": "EUR", "salaries": {"MONTHLY": {"mean": %d, "numDataPoints": 30}}}
	}`, mean)
}

// missing location section: decodes but fails validation
const invalidBody = `{"salaries": {"currency": "EUR", "salaries": {"MONTHLY": {"mean": 1}}}}`

// valid schema with no usable granularity blocks: fails flattening
const emptyBlocksBody = `{
	"location": {"locationDetails": {"name": "X", "type": "CITY", "population": 100}},
	"salaries": {"currency": "EUR", "salaries": {}}
}`

var testCities = []salary.CityTarget{
	{Location: "Berlin", Country: "Germany", Locale: "de-DE", CountryCode: "DE"},
	{Location: "Warsaw", Country: "Poland", Locale: "pl-PL", CountryCode: "PL"},
}

func newTestExtractor(t *testing.T, client LookupClient) (*Extractor, *store.FileStore) {
	t.Helper()
	fileStore := store.NewFileStore(t.TempDir())
	return New(client, fileStore, logging.New("error")), fileStore
}

func TestRun_FailuresAreIsolated(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{
		"nurse|Berlin":   goodBody(4000),
		"teacher|Berlin": invalidBody,
		"plumber|Berlin": emptyBlocksBody,
		// nurse|Warsaw missing: transport failure
		"teacher|Warsaw": goodBody(3000),
		"plumber|Warsaw": goodBody(3500),
	}}
	ext, fileStore := newTestExtractor(t, client)

	result, err := ext.Run(context.Background(), testCities, []string{"nurse", "teacher", "plumber"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Extracted != 3 {
		t.Errorf("Extracted = %d, want 3", result.Extracted)
	}

	// One problem entry per failure mode, in iteration order.
	want := []salary.ProblemEntry{
		{Job: "teacher", Location: "Berlin"},
		{Job: "plumber", Location: "Berlin"},
		{Job: "nurse", Location: "Warsaw"},
	}
	if len(result.Problems) != len(want) {
		t.Fatalf("Problems = %v, want %v", result.Problems, want)
	}
	for i := range want {
		if result.Problems[i] != want[i] {
			t.Errorf("Problems[%d] = %v, want %v", i, result.Problems[i], want[i])
		}
	}

	// Every city still gets its table, failures or not.
	for _, city := range testCities {
		if _, err := fileStore.LoadCityTable(city.Location); err != nil {
			t.Errorf("city table for %s not saved: %v", city.Location, err)
		}
	}
}

func TestRun_PersistsRawAndRows(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{
		"nurse|Berlin": goodBody(4000),
	}}
	ext, fileStore := newTestExtractor(t, client)

	cities := testCities[:1]
	result, err := ext.Run(context.Background(), cities, []string{"nurse"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Extracted != 1 {
		t.Fatalf("Extracted = %d, want 1", result.Extracted)
	}

	table, err := fileStore.LoadCityTable("Berlin")
	if err != nil {
		t.Fatalf("LoadCityTable failed: %v", err)
	}
	row := table.Rows()[0]
	if row["job"] != "nurse" {
		t.Errorf("job = %q, want nurse", row["job"])
	}
	if row["mean_monthly"] != "4000" {
		t.Errorf("mean_monthly = %q, want 4000", row["mean_monthly"])
	}
	if row["currency"] != "EUR" {
		t.Errorf("currency = %q, want EUR", row["currency"])
	}
}

func TestRun_RepeatRunsAreByteIdentical(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{
		"nurse|Berlin":   goodBody(4000),
		"teacher|Berlin": goodBody(3200),
	}}
	ext, fileStore := newTestExtractor(t, client)
	jobs := []string{"nurse", "teacher"}
	cities := testCities[:1]

	if _, err := ext.Run(context.Background(), cities, jobs); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first, err := os.ReadFile(fileStore.CityTablePath("Berlin"))
	if err != nil {
		t.Fatalf("failed to read first table: %v", err)
	}

	if _, err := ext.Run(context.Background(), cities, jobs); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second, err := os.ReadFile(fileStore.CityTablePath("Berlin"))
	if err != nil {
		t.Fatalf("failed to read second table: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("repeat run changed the city table:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRun_CancellationAborts(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{}}
	ext, _ := newTestExtractor(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ext.Run(ctx, testCities, []string{"nurse"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want %v", err, context.Canceled)
	}
	if len(client.calls) != 0 {
		t.Errorf("lookups after cancellation: %v", client.calls)
	}
}
