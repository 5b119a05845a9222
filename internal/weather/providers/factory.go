package providers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/i474232898/city-weather/internal/weather"
)

// Fetcher modes.
const (
	ModeWttr = "wttr"
	ModeMock = "mock"
)

// Options selects and configures a fetcher.
type Options struct {
	Mode    string
	BaseURL string

	// Timeout bounds the outbound call; 0 leaves the transport default.
	Timeout time.Duration

	BreakerEnabled bool
	BreakerTimeout time.Duration
}

// New builds the fetcher named by opts.Mode.
func New(opts Options) (weather.Fetcher, error) {
	switch opts.Mode {
	case ModeMock:
		return NewMockProvider(nil), nil
	case ModeWttr, "":
		cfg := HTTPClientConfig{
			Client: &http.Client{Timeout: opts.Timeout},
		}
		if opts.BreakerEnabled {
			cfg.Breaker = NewBreaker("wttr", opts.BreakerTimeout)
		}
		return NewWttrProvider(cfg, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown weather mode %q", opts.Mode)
	}
}
