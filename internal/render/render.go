// Package render projects session state onto what the user sees. Everything
// here is a pure function of its input.
package render

import (
	"strings"

	"github.com/i474232898/city-weather/internal/session"
)

// Block identifies which of the mutually exclusive display areas is shown.
type Block string

const (
	BlockNone    Block = "none"
	BlockLoading Block = "loading"
	BlockWeather Block = "weather"
	BlockError   Block = "error"
)

// DefaultIcon is used for any condition without a dedicated icon.
const DefaultIcon = "cloud"

var icons = map[string]string{
	"sunny":  "sun",
	"rain":   "cloud-rain",
	"cloudy": "cloud",
	"snow":   "snowflake",
}

// IconFor maps a condition description to an icon name. Matching is
// case-insensitive on the whole description; unknown conditions fall back to
// DefaultIcon, so the result is never empty.
func IconFor(condition string) string {
	if icon, ok := icons[strings.ToLower(strings.TrimSpace(condition))]; ok {
		return icon
	}
	return DefaultIcon
}

// View is the display-ready projection of a session state.
type View struct {
	Block      Block  `json:"block"`
	Icon       string `json:"icon,omitempty"`
	Heading    string `json:"heading,omitempty"`
	Temp       string `json:"temp,omitempty"`
	Conditions string `json:"conditions,omitempty"`
	Humidity   string `json:"humidity,omitempty"`
	WindSpeed  string `json:"windSpeed,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Project maps st to exactly one block.
func Project(st session.State) View {
	switch st.Status {
	case session.StatusLoading:
		return View{Block: BlockLoading}
	case session.StatusFailed:
		return View{Block: BlockError, Message: st.Message}
	case session.StatusLoaded:
		if st.Record == nil {
			return View{Block: BlockNone}
		}
		rec := st.Record
		heading := rec.City
		if rec.Country != "" {
			heading += " (" + rec.Country + ")"
		}
		return View{
			Block:      BlockWeather,
			Icon:       IconFor(rec.Condition),
			Heading:    heading,
			Temp:       rec.Temp(),
			Conditions: rec.Condition,
			Humidity:   rec.Humidity(),
			WindSpeed:  rec.WindSpeed(),
		}
	default:
		return View{Block: BlockNone}
	}
}
