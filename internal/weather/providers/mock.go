package providers

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/i474232898/city-weather/internal/weather"
)

// MockDelay emulates network latency for the offline demo.
const MockDelay = 2000 * time.Millisecond

// MockProvider fabricates random current conditions after MockDelay.
// The requested city is echoed back but does not influence the values.
type MockProvider struct {
	name  string
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockProvider returns a mock provider. A nil rng is seeded from the clock.
func NewMockProvider(rng *rand.Rand) *MockProvider {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockProvider{
		name:  "mock",
		delay: MockDelay,
		rng:   rng,
	}
}

func (p *MockProvider) Name() string {
	return p.name
}

// Fetch only fails when ctx ends before the delay elapses.
func (p *MockProvider) Fetch(ctx context.Context, city string) (weather.Record, error) {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return weather.Record{}, &weather.FetchError{Provider: p.name, Op: opRequest, City: city, Err: ctx.Err()}
	case <-timer.C:
	}

	return p.generate(city), nil
}

func (p *MockProvider) generate(city string) weather.Record {
	p.mu.Lock()
	defer p.mu.Unlock()

	return weather.Record{
		City:         city,
		TemperatureC: 10 + p.rng.Intn(20),
		HumidityPct:  40 + p.rng.Intn(60),
		WindKmph:     p.rng.Intn(50),
		Condition:    weather.MockConditions[p.rng.Intn(len(weather.MockConditions))],
	}
}
