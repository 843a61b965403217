package sellsy

import (
	"context"
	"time"
)

// Requester executes logical API calls
type Requester interface {
	// RequestAPI performs one signed call and returns the parsed envelope
	RequestAPI(ctx context.Context, settings RequestSettings) (*Response, error)
}

// Outcome classifies a finished call
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeAPIError       Outcome = "api_error"
	OutcomeRequestFailure Outcome = "request_failure"
)

// Observer is notified once per finished call
type Observer interface {
	ObserveCall(method string, outcome Outcome, elapsed time.Duration)
}
