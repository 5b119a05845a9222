package weather

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when a provider response is missing a
// required field or carries a value that cannot be normalized.
var ErrMalformedPayload = errors.New("malformed weather payload")

// Fetcher abstracts a current-conditions source (wttr.in, the mock generator).
// Implementations perform at most one outbound call per invocation and never
// retry or cache.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, city string) (Record, error)
}

// FetchError describes a failed fetch. Op names the stage that failed.
type FetchError struct {
	Provider string
	Op       string
	City     string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s %q: %v", e.Provider, e.Op, e.City, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
