package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/city-weather/internal/weather/providers"
)

// Fetcher modes.
const (
	ModeWttr = providers.ModeWttr
	ModeMock = providers.ModeMock
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// Mode selects the weather source: "wttr" (network) or "mock" (offline demo).
	Mode string `validate:"oneof=wttr mock"`

	WttrBaseURL string `validate:"required,url"`

	// HTTPTimeout bounds outbound calls; 0 leaves the transport default.
	HTTPTimeout time.Duration `validate:"gte=0"`

	// BreakerEnabled puts the wttr call behind a circuit breaker.
	BreakerEnabled bool
	BreakerTimeout time.Duration `validate:"gt=0"`

	// Idle browser sessions are evicted after SessionMaxAge (0 = never),
	// checked every SessionSweepInterval (0 = never).
	SessionMaxAge        time.Duration `validate:"gte=0"`
	SessionSweepInterval time.Duration `validate:"gte=0"`

	Env      string
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when nothing is set.
func Default() *AppConfig {
	return &AppConfig{
		Port:                 "8080",
		Mode:                 ModeWttr,
		WttrBaseURL:          providers.DefaultWttrBaseURL,
		BreakerTimeout:       time.Minute,
		SessionMaxAge:        30 * time.Minute,
		SessionSweepInterval: 5 * time.Minute,
		Env:                  "development",
		LogLevel:             "info",
	}
}

// Load reads configuration from .env, an optional YAML file named by
// CONFIG_FILE and the environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read CONFIG_FILE: %w", err)
		}
		if err := applyYAML(cfg, data); err != nil {
			return nil, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// yamlConfig mirrors AppConfig with durations as strings ("30s", "5m").
type yamlConfig struct {
	Port                 *string `yaml:"port"`
	Mode                 *string `yaml:"mode"`
	WttrBaseURL          *string `yaml:"wttr_base_url"`
	HTTPTimeout          *string `yaml:"http_timeout"`
	BreakerEnabled       *bool   `yaml:"breaker_enabled"`
	BreakerTimeout       *string `yaml:"breaker_timeout"`
	SessionMaxAge        *string `yaml:"session_max_age"`
	SessionSweepInterval *string `yaml:"session_sweep_interval"`
	Env                  *string `yaml:"env"`
	LogLevel             *string `yaml:"log_level"`
}

func applyYAML(cfg *AppConfig, data []byte) error {
	var y yamlConfig
	if err := yaml.Unmarshal(data, &y); err != nil {
		return err
	}

	setString(&cfg.Port, y.Port)
	setString(&cfg.Mode, y.Mode)
	setString(&cfg.WttrBaseURL, y.WttrBaseURL)
	setString(&cfg.Env, y.Env)
	setString(&cfg.LogLevel, y.LogLevel)
	if y.BreakerEnabled != nil {
		cfg.BreakerEnabled = *y.BreakerEnabled
	}

	durations := []struct {
		key string
		src *string
		dst *time.Duration
	}{
		{"http_timeout", y.HTTPTimeout, &cfg.HTTPTimeout},
		{"breaker_timeout", y.BreakerTimeout, &cfg.BreakerTimeout},
		{"session_max_age", y.SessionMaxAge, &cfg.SessionMaxAge},
		{"session_sweep_interval", y.SessionSweepInterval, &cfg.SessionSweepInterval},
	}
	for _, d := range durations {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.Mode = strings.ToLower(getenvDefault("WEATHER_MODE", cfg.Mode))
	cfg.WttrBaseURL = getenvDefault("WTTR_BASE_URL", cfg.WttrBaseURL)
	cfg.BreakerEnabled = getenvBool("BREAKER_ENABLED", cfg.BreakerEnabled)
	cfg.Env = getenvDefault("ENV", cfg.Env)
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", cfg.LogLevel))

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"BREAKER_TIMEOUT", &cfg.BreakerTimeout},
		{"SESSION_MAX_AGE", &cfg.SessionMaxAge},
		{"SESSION_SWEEP_INTERVAL", &cfg.SessionSweepInterval},
	}
	for _, d := range durations {
		v, err := getenvDuration(d.key, *d.dst)
		if err != nil {
			return err
		}
		*d.dst = v
	}
	return nil
}

var validate = validator.New()

// FetcherOptions returns the provider options described by cfg.
func (c *AppConfig) FetcherOptions() providers.Options {
	return providers.Options{
		Mode:           c.Mode,
		BaseURL:        c.WttrBaseURL,
		Timeout:        c.HTTPTimeout,
		BreakerEnabled: c.BreakerEnabled,
		BreakerTimeout: c.BreakerTimeout,
	}
}

// Validate checks cfg against its struct constraints.
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
