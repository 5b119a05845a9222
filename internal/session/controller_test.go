package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-weather/internal/weather"
)

type stubFetcher struct {
	calls   int32
	rec     weather.Record
	err     error
	panicV  any
	release chan struct{}
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(_ context.Context, city string) (weather.Record, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		<-f.release
	}
	if f.panicV != nil {
		panic(f.panicV)
	}
	if f.err != nil {
		return weather.Record{}, f.err
	}
	rec := f.rec
	if rec.City == "" {
		rec.City = city
	}
	return rec, nil
}

var london = weather.Record{
	City:         "London",
	Country:      "United Kingdom",
	TemperatureC: 15,
	HumidityPct:  60,
	WindKmph:     10,
	Condition:    "Partly cloudy",
}

func TestController_EmptyInputIsRejected(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n  "} {
		f := &stubFetcher{rec: london}
		c := NewController(f)

		st, err := c.Fetch(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptyCity)
		assert.Equal(t, StatusIdle, st.Status)
		assert.Equal(t, idle(), c.State())
		assert.Zero(t, atomic.LoadInt32(&f.calls), "no fetch for %q", input)

		assert.ErrorIs(t, c.Start(input), ErrEmptyCity)
		assert.Zero(t, atomic.LoadInt32(&f.calls))
	}
}

func TestController_EmptyInputKeepsPreviousResult(t *testing.T) {
	c := NewController(&stubFetcher{rec: london})
	first, err := c.Fetch(context.Background(), "London")
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyCity)
	assert.Equal(t, first, c.State())
}

func TestController_Success(t *testing.T) {
	f := &stubFetcher{rec: london}
	c := NewController(f)

	st, err := c.Fetch(context.Background(), "  London ")
	require.NoError(t, err)

	assert.Equal(t, StatusLoaded, st.Status)
	assert.False(t, st.Loading())
	assert.Equal(t, "London", st.City)
	require.NotNil(t, st.Record)
	assert.Equal(t, london, *st.Record)
	assert.Empty(t, st.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
	assert.Equal(t, "  London ", c.Input())
}

func TestController_FailureClearsRecord(t *testing.T) {
	f := &stubFetcher{rec: london}
	c := NewController(f)
	_, err := c.Fetch(context.Background(), "London")
	require.NoError(t, err)

	f.err = errors.New("dial tcp: connection refused")
	st, err := c.Fetch(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, st.Status)
	assert.False(t, st.Loading())
	assert.Nil(t, st.Record)
	assert.Equal(t, GenericErrorMessage, st.Message)
}

func TestController_PanicBecomesFailure(t *testing.T) {
	c := NewController(&stubFetcher{panicV: "boom"})

	st, err := c.Fetch(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, st.Status)
	assert.Equal(t, GenericErrorMessage, st.Message)
	assert.False(t, c.State().Loading())
}

func TestController_SecondTriggerWhileLoadingIsIgnored(t *testing.T) {
	f := &stubFetcher{rec: london, release: make(chan struct{})}
	c := NewController(f)

	require.NoError(t, c.Start("London"))
	assert.Equal(t, StatusLoading, c.State().Status)

	_, err := c.Fetch(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrFetchInFlight)
	assert.ErrorIs(t, c.Start("Rome"), ErrFetchInFlight)
	assert.Equal(t, "London", c.State().City)

	close(f.release)
	assert.Eventually(t, func() bool {
		return c.State().Status == StatusLoaded
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
}

func TestController_Submit(t *testing.T) {
	f := &stubFetcher{rec: london}
	c := NewController(f)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCity)

	c.SetInput("London")
	st, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusLoaded, st.Status)
}

func TestController_ObserverSeesEveryTransition(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []Status
	)
	f := &stubFetcher{err: errors.New("timeout")}
	var c *Controller
	c = NewController(f, WithObserver(func(s State) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
		// Calling back into the controller must not deadlock.
		_ = c.State()
	}))

	_, err := c.Fetch(context.Background(), "Oslo")
	require.NoError(t, err)
	f.err = nil
	_, err = c.Fetch(context.Background(), "Oslo")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusLoading, StatusFailed, StatusLoading, StatusLoaded}, seen)
}

func TestController_ObserverReentryDuringNewTrigger(t *testing.T) {
	var (
		once    sync.Once
		entered = make(chan struct{})
		mu      sync.Mutex
		seen    []string
	)
	var c *Controller
	c = NewController(&stubFetcher{rec: london}, WithObserver(func(s State) {
		mu.Lock()
		seen = append(seen, s.Status.String()+" "+s.City)
		mu.Unlock()
		if s.Status != StatusLoaded {
			return
		}
		first := false
		once.Do(func() {
			first = true
			close(entered)
		})
		if first {
			// Hold the notification open while a new trigger arrives.
			time.Sleep(50 * time.Millisecond)
			_ = c.State()
		}
	}))

	require.NoError(t, c.Start("London"))
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("observer never saw the loaded state")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Fetch(context.Background(), "Paris")
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second trigger blocked behind a re-entrant observer")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"loading London", "loaded London", "loading Paris", "loaded Paris"}, seen)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "loaded", StatusLoaded.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "status(9)", Status(9).String())
}

func TestStatus_TextRoundTrip(t *testing.T) {
	var s Status
	require.NoError(t, s.UnmarshalText([]byte("failed")))
	assert.Equal(t, StatusFailed, s)
	assert.Error(t, s.UnmarshalText([]byte("exploded")))
}
