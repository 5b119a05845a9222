package providers

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-weather/internal/weather"
)

func TestMockProvider_Ranges(t *testing.T) {
	p := NewMockProvider(rand.New(rand.NewSource(42)))
	p.delay = 0

	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		rec, err := p.Fetch(context.Background(), "Milano")
		require.NoError(t, err)

		assert.Equal(t, "Milano", rec.City)
		assert.Empty(t, rec.Country)
		assert.GreaterOrEqual(t, rec.TemperatureC, 10)
		assert.Less(t, rec.TemperatureC, 30)
		assert.GreaterOrEqual(t, rec.HumidityPct, 40)
		assert.Less(t, rec.HumidityPct, 100)
		assert.GreaterOrEqual(t, rec.WindKmph, 0)
		assert.Less(t, rec.WindKmph, 50)
		assert.Contains(t, weather.MockConditions, rec.Condition)
		seen[rec.Condition] = true
	}
	assert.Len(t, seen, len(weather.MockConditions))
}

func TestMockProvider_DefaultDelay(t *testing.T) {
	p := NewMockProvider(nil)
	assert.Equal(t, 2*time.Second, p.delay)
	assert.Equal(t, "mock", p.Name())
}

func TestMockProvider_WaitsForDelay(t *testing.T) {
	p := NewMockProvider(nil)
	p.delay = 50 * time.Millisecond

	start := time.Now()
	_, err := p.Fetch(context.Background(), "Torino")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestMockProvider_ContextCancelled(t *testing.T) {
	p := NewMockProvider(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx, "Napoli")
	assert.ErrorIs(t, err, context.Canceled)

	var fe *weather.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, opRequest, fe.Op)
}
