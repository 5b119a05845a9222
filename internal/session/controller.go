package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/i474232898/city-weather/internal/weather"
)

const (
	// GenericErrorMessage is the only failure text shown to the user; the
	// underlying cause is logged, not displayed.
	GenericErrorMessage = "Unable to retrieve weather data."

	// ValidationMessage is the alert shown for an empty city.
	ValidationMessage = "Please enter a city."
)

var (
	// ErrEmptyCity is returned when the trigger carries no city.
	ErrEmptyCity = errors.New("city must not be empty")

	// ErrFetchInFlight is returned when a fetch is triggered while another
	// one is still loading. The trigger is ignored.
	ErrFetchInFlight = errors.New("weather fetch already in flight")
)

// Controller owns one session's input text and state and drives fetches.
// At most one fetch is in flight per controller.
type Controller struct {
	fetcher  weather.Fetcher
	logger   *slog.Logger
	observer func(State)

	mu    sync.Mutex
	input string
	state State
	seq   uint64 // transitions made, guarded by mu

	// Observer calls run under notifyMu in seq order. c.mu is never held
	// while waiting for notifyMu.
	notifyMu  sync.Mutex
	notified  uint64
	notifyCnd *sync.Cond
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn to be called with every new state, in order.
// fn may read the controller but must not trigger a fetch itself.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// NewController creates an idle controller backed by fetcher.
func NewController(fetcher weather.Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		logger:  slog.Default(),
		state:   idle(),
	}
	c.notifyCnd = sync.NewCond(&c.notifyMu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetInput records the current text of the city field.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Input returns the current text of the city field.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Fetch sets the input to city and runs one fetch cycle, returning the
// settled state. It returns ErrEmptyCity or ErrFetchInFlight without
// touching the state when the trigger is rejected.
func (c *Controller) Fetch(ctx context.Context, city string) (State, error) {
	trimmed, err := c.begin(city)
	if err != nil {
		return c.State(), err
	}
	return c.settle(ctx, trimmed), nil
}

// Submit runs Fetch with the current input text.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	return c.Fetch(ctx, c.Input())
}

// Start validates city and enters Loading synchronously, then settles the
// fetch in the background. The fetch cannot be cancelled once started.
func (c *Controller) Start(city string) error {
	trimmed, err := c.begin(city)
	if err != nil {
		return err
	}
	go c.settle(context.Background(), trimmed)
	return nil
}

func (c *Controller) begin(city string) (string, error) {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return "", ErrEmptyCity
	}

	c.mu.Lock()
	if c.state.Loading() {
		c.mu.Unlock()
		return "", ErrFetchInFlight
	}
	c.input = city
	st := loading(trimmed)
	seq := c.swapLocked(st)
	c.mu.Unlock()

	c.notify(seq, st)
	return trimmed, nil
}

func (c *Controller) settle(ctx context.Context, city string) State {
	rec, err := c.safeFetch(ctx, city)

	var next State
	if err != nil {
		c.logger.Error("weather fetch failed",
			"provider", c.fetcher.Name(),
			"city", city,
			"error", err)
		next = failed(city, GenericErrorMessage)
	} else {
		c.logger.Debug("weather fetch succeeded",
			"provider", c.fetcher.Name(),
			"city", city,
			"area", rec.City)
		next = loaded(city, rec)
	}

	c.mu.Lock()
	seq := c.swapLocked(next)
	c.mu.Unlock()

	c.notify(seq, next)
	return next
}

// swapLocked installs next and returns its sequence number. The caller must
// hold c.mu.
func (c *Controller) swapLocked(next State) uint64 {
	c.state = next
	c.seq++
	return c.seq
}

// notify hands st to the observer once every earlier transition has been
// delivered.
func (c *Controller) notify(seq uint64, st State) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	for c.notified != seq-1 {
		c.notifyCnd.Wait()
	}
	defer func() {
		c.notified = seq
		c.notifyCnd.Broadcast()
	}()

	if c.observer != nil {
		c.observer(st)
	}
}

// safeFetch converts a panicking fetcher into an ordinary failure.
func (c *Controller) safeFetch(ctx context.Context, city string) (rec weather.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetcher %s panicked: %v", c.fetcher.Name(), r)
		}
	}()
	return c.fetcher.Fetch(ctx, city)
}
