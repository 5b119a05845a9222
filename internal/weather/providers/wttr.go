package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/city-weather/internal/weather"
)

// DefaultWttrBaseURL is the public wttr.in endpoint.
const DefaultWttrBaseURL = "https://wttr.in"

// WttrProvider implements weather.Fetcher against wttr.in's JSON format (format=j1).
type WttrProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
}

// NewWttrProvider builds a provider for baseURL. Pass a nil breaker to send
// every call through unconditionally.
func NewWttrProvider(cfg HTTPClientConfig, baseURL string) *WttrProvider {
	if baseURL == "" {
		baseURL = DefaultWttrBaseURL
	}
	return &WttrProvider{
		name:    "wttr",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: cfg,
	}
}

func (p *WttrProvider) Name() string {
	return p.name
}

// requestURL percent-encodes city into a single path segment.
func (p *WttrProvider) requestURL(city string) string {
	values := url.Values{}
	values.Set("format", "j1")
	return fmt.Sprintf("%s/%s?%s", p.baseURL, url.PathEscape(city), values.Encode())
}

type wttrValue struct {
	Value string `json:"value"`
}

type wttrPayload struct {
	CurrentCondition []struct {
		TempC         string      `json:"temp_C"`
		Humidity      string      `json:"humidity"`
		WindspeedKmph string      `json:"windspeedKmph"`
		WeatherDesc   []wttrValue `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []wttrValue `json:"areaName"`
		Country  []wttrValue `json:"country"`
	} `json:"nearest_area"`
}

func (p *WttrProvider) Fetch(ctx context.Context, city string) (weather.Record, error) {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, p.requestURL(city), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, p.httpCfg, buildRequest)
	if err != nil {
		return weather.Record{}, p.fail(opRequest, city, err)
	}
	defer resp.Body.Close()

	var payload wttrPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Record{}, p.fail(opDecode, city, fmt.Errorf("%w: %v", weather.ErrMalformedPayload, err))
	}

	rec, err := normalizeWttr(payload)
	if err != nil {
		return weather.Record{}, p.fail(opNormalize, city, err)
	}
	return rec, nil
}

func (p *WttrProvider) fail(op, city string, err error) error {
	return &weather.FetchError{Provider: p.name, Op: op, City: city, Err: err}
}

func normalizeWttr(payload wttrPayload) (weather.Record, error) {
	if len(payload.NearestArea) == 0 || len(payload.CurrentCondition) == 0 {
		return weather.Record{}, fmt.Errorf("%w: missing nearest_area or current_condition", weather.ErrMalformedPayload)
	}
	area := payload.NearestArea[0]
	current := payload.CurrentCondition[0]

	if len(area.AreaName) == 0 || area.AreaName[0].Value == "" {
		return weather.Record{}, fmt.Errorf("%w: missing area name", weather.ErrMalformedPayload)
	}
	if len(area.Country) == 0 {
		return weather.Record{}, fmt.Errorf("%w: missing country", weather.ErrMalformedPayload)
	}
	if len(current.WeatherDesc) == 0 {
		return weather.Record{}, fmt.Errorf("%w: missing weather description", weather.ErrMalformedPayload)
	}

	temp, err := leadingInt("temp_C", current.TempC)
	if err != nil {
		return weather.Record{}, err
	}
	humidity, err := leadingInt("humidity", current.Humidity)
	if err != nil {
		return weather.Record{}, err
	}
	wind, err := leadingInt("windspeedKmph", current.WindspeedKmph)
	if err != nil {
		return weather.Record{}, err
	}

	return weather.Record{
		City:         area.AreaName[0].Value,
		Country:      area.Country[0].Value,
		TemperatureC: temp,
		HumidityPct:  humidity,
		WindKmph:     wind,
		Condition:    current.WeatherDesc[0].Value,
	}, nil
}

// leadingInt parses the integer prefix of s, truncating anything after it:
// "15" -> 15, "-3" -> -3, "15.7" -> 15. A value without leading digits fails.
func leadingInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%w: %s %q is not a number", weather.ErrMalformedPayload, field, s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", weather.ErrMalformedPayload, field, err)
	}
	return n, nil
}
