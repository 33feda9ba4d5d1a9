// Package extractor drives the scrape stage: one lookup per (city, job)
// pair, validation and flattening of each response, per-city persistence and
// the run's problem log. Individual failures are isolated; one bad response
// never aborts the run.
package extractor

import (
	"context"
	"errors"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mazen160/go-random"

	"salarymap/internal/config"
	"salarymap/internal/logging"
	"salarymap/internal/salary"
	"salarymap/internal/salaryapi"
	"salarymap/internal/store"
)

// LookupClient performs one upstream salary lookup.
type LookupClient interface {
	LookupSalary(ctx context.Context, job string, city salary.CityTarget) (*salaryapi.Response, []byte, error)
}

// Extractor walks the city×job cross-product sequentially. Requests never
// overlap; randomized pauses keep the upstream service happy.
type Extractor struct {
	client  LookupClient
	store   *store.FileStore
	log     *logging.Logger
	pause   config.PauseConfig
	tracker *progress.Tracker
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithPausePolicy sets the randomized pause bounds. The zero policy disables
// pausing, which tests rely on.
func WithPausePolicy(pause config.PauseConfig) Option {
	return func(e *Extractor) {
		e.pause = pause
	}
}

// WithProgress attaches a progress tracker that is stepped once per (city,
// job) iteration.
func WithProgress(tracker *progress.Tracker) Option {
	return func(e *Extractor) {
		e.tracker = tracker
	}
}

// New creates an extractor writing through the given file store.
func New(client LookupClient, fileStore *store.FileStore, log *logging.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		client: client,
		store:  fileStore,
		log:    log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunResult summarizes one full extraction run.
type RunResult struct {
	Extracted int
	Problems  []salary.ProblemEntry
	Elapsed   time.Duration
}

// Run processes every city in order, and within each city every job in
// order. Per-pair failures are recorded in the problem log and skipped;
// only persistence errors and context cancellation abort the run. The
// problem log is written once after all cities.
func (e *Extractor) Run(ctx context.Context, cities []salary.CityTarget, jobs []string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{}

	for _, city := range cities {
		if err := e.pauseFor(ctx, e.pause.CityMinSec, e.pause.CityMaxSec); err != nil {
			return result, err
		}

		table := salary.NewTable()
		table.EnsureColumn("job")

		for _, job := range jobs {
			if err := e.pauseFor(ctx, e.pause.JobMinSec, e.pause.JobMaxSec); err != nil {
				return result, err
			}

			e.log.Debug("scraping city data", "job", job, "location", city.Location, "country", city.Country)

			record, body, err := e.extractOne(ctx, job, city)
			e.step()
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return result, err
				}
				e.log.Warn("skipping job", "job", job, "location", city.Location, "reason", err)
				result.Problems = append(result.Problems, salary.ProblemEntry{Job: job, Location: city.Location})
				continue
			}

			if err := e.store.SaveRaw(city.Location, job, body); err != nil {
				return result, err
			}

			row := salary.Row{"job": job}
			for _, field := range record.Fields {
				table.EnsureColumn(field.Name)
				if field.Value != "" {
					row[field.Name] = field.Value
				}
			}
			table.AppendRow(row)
			result.Extracted++
		}

		if err := e.store.SaveCityTable(city.Location, table); err != nil {
			return result, err
		}
		e.log.Info("city table saved", "location", city.Location, "rows", table.NumRows())
	}

	if err := e.store.SaveProblemLog(result.Problems); err != nil {
		return result, err
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// extractOne runs the lookup → validate → flatten chain for one pair.
func (e *Extractor) extractOne(ctx context.Context, job string, city salary.CityTarget) (salary.Record, []byte, error) {
	resp, body, err := e.client.LookupSalary(ctx, job, city)
	if err != nil {
		return salary.Record{}, nil, err
	}

	if err := salaryapi.ValidateResponse(resp); err != nil {
		return salary.Record{}, nil, err
	}

	record, err := salaryapi.Flatten(resp)
	if err != nil {
		return salary.Record{}, nil, err
	}

	return record, body, nil
}

func (e *Extractor) step() {
	if e.tracker != nil {
		e.tracker.Increment(1)
	}
}

// pauseFor sleeps a random number of seconds in [minSec, maxSec], honoring
// context cancellation. A non-positive max disables the pause.
func (e *Extractor) pauseFor(ctx context.Context, minSec, maxSec int) error {
	if maxSec <= 0 {
		return nil
	}

	seconds := minSec
	if maxSec > minSec {
		if n, err := random.IntRange(minSec, maxSec+1); err == nil {
			seconds = n
		}
	}
	if seconds <= 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(seconds) * time.Second)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
