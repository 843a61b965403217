// Package batch runs many Sellsy API calls concurrently.
package batch

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/sellsyctl/sellsy"
)

const DefaultConcurrency = 4

// ClientFactory returns a fresh requester for one call. Clients keep per-call
// diagnostics, so calls never share one.
type ClientFactory func() sellsy.Requester

// Result is the outcome of one batch call
type Result struct {
	Name     string
	Method   string
	Response *sellsy.Response
	Err      error
	Duration time.Duration
}

// Outcome classifies the result the same way the client observer does
func (r Result) Outcome() sellsy.Outcome {
	switch {
	case r.Err == nil:
		return sellsy.OutcomeSuccess
	case sellsy.IsAPIError(r.Err):
		return sellsy.OutcomeAPIError
	default:
		return sellsy.OutcomeRequestFailure
	}
}

// Summary counts results by outcome
type Summary struct {
	Total           int
	Succeeded       int
	APIErrors       int
	RequestFailures int
	Elapsed         time.Duration
}

// Failed reports whether any call did not succeed
func (s Summary) Failed() bool {
	return s.APIErrors+s.RequestFailures > 0
}

// Runner executes batch calls with bounded concurrency
type Runner struct {
	factory     ClientFactory
	concurrency int
	logger      zerolog.Logger
}

// NewRunner creates a runner. A non-positive concurrency uses DefaultConcurrency.
func NewRunner(factory ClientFactory, concurrency int, logger zerolog.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Runner{
		factory:     factory,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Concurrency returns the maximum number of calls in flight
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// Run executes every call. Individual failures are recorded in their Result
// and never stop the batch; results keep the order of calls.
func (r *Runner) Run(ctx context.Context, calls []Call) ([]Result, Summary) {
	start := time.Now()
	results := make([]Result, len(calls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, call := range calls {
		g.Go(func() error {
			callStart := time.Now()
			resp, err := r.factory().RequestAPI(ctx, call.Settings())
			results[i] = Result{
				Name:     call.Label(),
				Method:   call.Method,
				Response: resp,
				Err:      err,
				Duration: time.Since(callStart),
			}

			if err != nil {
				r.logger.Warn().
					Err(err).
					Str("call", call.Label()).
					Str("method", call.Method).
					Msg("Batch call failed")
			}
			return nil // Don't stop on individual errors
		})
	}

	// Goroutines never return errors
	_ = g.Wait()

	summary := Summary{Total: len(results), Elapsed: time.Since(start)}
	for _, res := range results {
		switch res.Outcome() {
		case sellsy.OutcomeSuccess:
			summary.Succeeded++
		case sellsy.OutcomeAPIError:
			summary.APIErrors++
		default:
			summary.RequestFailures++
		}
	}

	r.logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("api_errors", summary.APIErrors).
		Int("request_failures", summary.RequestFailures).
		Dur("elapsed", summary.Elapsed).
		Msg("Batch finished")

	return results, summary
}
