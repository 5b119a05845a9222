package session

import (
	"fmt"

	"github.com/i474232898/city-weather/internal/weather"
)

// Status is the phase of a session's fetch cycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

var statusNames = map[Status]string{
	StatusIdle:    "idle",
	StatusLoading: "loading",
	StatusLoaded:  "loaded",
	StatusFailed:  "failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown session status %q", text)
}

// State is an immutable snapshot of a session. Transitions replace it
// wholesale; Record is set only when Loaded and Message only when Failed.
// Record must be treated as read-only.
type State struct {
	Status  Status          `json:"status"`
	City    string          `json:"city,omitempty"`
	Record  *weather.Record `json:"record,omitempty"`
	Message string          `json:"message,omitempty"`
}

func idle() State {
	return State{Status: StatusIdle}
}

func loading(city string) State {
	return State{Status: StatusLoading, City: city}
}

func loaded(city string, rec weather.Record) State {
	return State{Status: StatusLoaded, City: city, Record: &rec}
}

func failed(city, message string) State {
	return State{Status: StatusFailed, City: city, Message: message}
}

// Loading reports whether a fetch is outstanding.
func (s State) Loading() bool {
	return s.Status == StatusLoading
}
