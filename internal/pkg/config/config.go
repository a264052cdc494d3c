package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type BackendConfig struct {
	BaseURL     string
	AnalyzerURL string
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	CacheTTL  time.Duration
}

type SessionConfig struct {
	CookieName string
	Secret     string
	MaxAge     time.Duration
	Secure     bool
}

type PollConfig struct {
	DashboardPeriod time.Duration
	AlertsPeriod    time.Duration
	DashboardLimit  int
}

type SimulatorConfig struct {
	HistoryTTL      time.Duration
	HistoryLimit    int
	BurstSpacing    time.Duration
	VelocitySpacing time.Duration
}

type ObservabilityConfig struct {
	ServiceName  string
	MetricsAddr  string
	OTLPEndpoint string
	PprofAddr    string
}

type Config struct {
	Environment   string
	ServerPort    string
	LogLevel      zapcore.Level
	AllowedOrigin string
	MFAEnabled    bool
	Backend       BackendConfig
	Geocoder      GeocoderConfig
	Session       SessionConfig
	Poll          PollConfig
	Simulator     SimulatorConfig
	Observability ObservabilityConfig
}

const devSecret = "fraudguard-dev-session-secret-change-me"

func Load() (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := &Config{
		Environment:   getEnvOrDefault("APP_ENV", "development"),
		ServerPort:    getEnvOrDefault("SERVER_PORT", "8091"),
		AllowedOrigin: getEnvOrDefault("CORS_ALLOWED_ORIGIN", "http://localhost:8091"),
		Backend: BackendConfig{
			BaseURL:     getEnvOrDefault("BACKEND_URL", "http://localhost:8080"),
			AnalyzerURL: getEnvOrDefault("ANALYZER_URL", "http://localhost:8000"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getEnvOrDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnvOrDefault("GEOCODER_USER_AGENT", "fraudguard-console/1.0"),
		},
		Session: SessionConfig{
			CookieName: getEnvOrDefault("SESSION_COOKIE_NAME", "fraudguard_session"),
			Secret:     getEnvOrDefault("SESSION_SECRET", devSecret),
		},
		Observability: ObservabilityConfig{
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "fraudguard-console"),
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			PprofAddr:    getEnvOrDefault("PPROF_ADDR", ":6060"),
		},
	}

	var err error
	cfg.LogLevel, err = zapcore.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info"))
	collect(err)

	cfg.MFAEnabled, err = getEnvBool("MFA_ENABLED", true)
	collect(err)
	cfg.Session.Secure, err = getEnvBool("SESSION_SECURE", false)
	collect(err)
	cfg.Session.MaxAge, err = getEnvDuration("SESSION_MAX_AGE", 24*time.Hour)
	collect(err)
	cfg.Geocoder.CacheTTL, err = getEnvDuration("GEOCODER_CACHE_TTL", time.Hour)
	collect(err)

	cfg.Poll.DashboardPeriod, err = getEnvDuration("DASHBOARD_POLL_INTERVAL", time.Second)
	collect(err)
	cfg.Poll.AlertsPeriod, err = getEnvDuration("ALERTS_POLL_INTERVAL", 4*time.Second)
	collect(err)
	cfg.Poll.DashboardLimit, err = getEnvInt("DASHBOARD_LIMIT", 20)
	collect(err)

	cfg.Simulator.HistoryTTL, err = getEnvDuration("SIMULATOR_HISTORY_TTL", 30*time.Minute)
	collect(err)
	cfg.Simulator.HistoryLimit, err = getEnvInt("SIMULATOR_HISTORY_LIMIT", 50)
	collect(err)
	cfg.Simulator.BurstSpacing, err = getEnvDuration("SIMULATOR_BURST_SPACING", 500*time.Millisecond)
	collect(err)
	cfg.Simulator.VelocitySpacing, err = getEnvDuration("SIMULATOR_VELOCITY_SPACING", time.Second)
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate rejects settings the console cannot run with.
func (c *Config) Validate() error {
	var errs []error
	for _, setting := range []struct{ name, raw string }{
		{"BACKEND_URL", c.Backend.BaseURL},
		{"ANALYZER_URL", c.Backend.AnalyzerURL},
		{"GEOCODER_URL", c.Geocoder.BaseURL},
	} {
		u, err := url.Parse(setting.raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", setting.name, setting.raw))
		}
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be numeric, got %q", c.ServerPort))
	}
	if len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 bytes"))
	}
	if c.IsProduction() && c.Session.Secret == devSecret {
		errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
	}
	if c.Poll.DashboardPeriod <= 0 || c.Poll.AlertsPeriod <= 0 {
		errs = append(errs, errors.New("poll intervals must be positive"))
	}
	if c.Poll.DashboardLimit <= 0 {
		errs = append(errs, errors.New("DASHBOARD_LIMIT must be positive"))
	}
	if c.Simulator.HistoryTTL <= 0 || c.Simulator.HistoryLimit <= 0 {
		errs = append(errs, errors.New("simulator history TTL and limit must be positive"))
	}
	if c.Simulator.BurstSpacing < 0 || c.Simulator.VelocitySpacing < 0 {
		errs = append(errs, errors.New("simulator spacing cannot be negative"))
	}
	if c.Session.MaxAge <= 0 {
		errs = append(errs, errors.New("SESSION_MAX_AGE must be positive"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// getEnvDuration accepts Go durations ("750ms") or plain milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
