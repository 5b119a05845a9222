package weather

import (
	"strconv"
)

// Mock condition labels. The wttr variant reports free-form descriptions
// ("Partly cloudy", "Light rain shower", ...); the mock variant only ever
// picks one of these.
const (
	ConditionSunny  = "Sunny"
	ConditionRain   = "Rain"
	ConditionCloudy = "Cloudy"
	ConditionSnow   = "Snow"
)

// MockConditions is the closed vocabulary used by the mock provider.
var MockConditions = []string{ConditionSunny, ConditionRain, ConditionCloudy, ConditionSnow}

// Record is the normalized result of one successful fetch.
// Country may be empty when the source does not report one.
type Record struct {
	City         string `json:"city"`
	Country      string `json:"country,omitempty"`
	TemperatureC int    `json:"temperatureC"`
	HumidityPct  int    `json:"humidityPercent"`
	WindKmph     int    `json:"windSpeedKmph"`
	Condition    string `json:"conditions"`
}

// Temp returns the temperature with its unit suffix, e.g. "15°C".
func (r Record) Temp() string {
	return strconv.Itoa(r.TemperatureC) + "°C"
}

// Humidity returns the humidity with its unit suffix, e.g. "60%".
func (r Record) Humidity() string {
	return strconv.Itoa(r.HumidityPct) + "%"
}

// WindSpeed returns the wind speed with its unit suffix, e.g. "10 km/h".
func (r Record) WindSpeed() string {
	return strconv.Itoa(r.WindKmph) + " km/h"
}
