package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-weather/internal/session"
	"github.com/i474232898/city-weather/internal/weather"
)

type scriptedFetcher struct {
	results map[string]weather.Record
	calls   []string
}

func (f *scriptedFetcher) Name() string { return "scripted" }

func (f *scriptedFetcher) Fetch(_ context.Context, city string) (weather.Record, error) {
	f.calls = append(f.calls, city)
	rec, ok := f.results[city]
	if !ok {
		return weather.Record{}, errors.New("unknown city")
	}
	return rec, nil
}

func TestRun(t *testing.T) {
	f := &scriptedFetcher{results: map[string]weather.Record{
		"London": {City: "London", Country: "United Kingdom", TemperatureC: 15, HumidityPct: 60, WindKmph: 10, Condition: "Partly cloudy"},
	}}
	var out, alerts bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	in := strings.NewReader("London\n   \nAtlantis\n")
	require.NoError(t, run(context.Background(), f, log, in, &out, &alerts))

	assert.Equal(t, []string{"London", "Atlantis"}, f.calls)
	assert.Equal(t, session.ValidationMessage+"\n", alerts.String())

	got := out.String()
	assert.Contains(t, got, "[cloud] London (United Kingdom)")
	assert.Contains(t, got, "15°C  Partly cloudy")
	assert.Contains(t, got, "Humidity: 60%  Wind: 10 km/h")
	assert.Contains(t, got, "Error: "+session.GenericErrorMessage)
	assert.Equal(t, 2, strings.Count(got, "Loading..."))
	assert.NotContains(t, got, "unknown city")
}
