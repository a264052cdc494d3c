package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8091", cfg.ServerPort)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.AnalyzerURL)
	assert.Equal(t, "fraudguard_session", cfg.Session.CookieName)
	assert.Equal(t, time.Second, cfg.Poll.DashboardPeriod)
	assert.Equal(t, 4*time.Second, cfg.Poll.AlertsPeriod)
	assert.Equal(t, 20, cfg.Poll.DashboardLimit)
	assert.Equal(t, 30*time.Minute, cfg.Simulator.HistoryTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Simulator.BurstSpacing)
	assert.Equal(t, time.Second, cfg.Simulator.VelocitySpacing)
	assert.True(t, cfg.MFAEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.fraudguard.test")
	t.Setenv("DASHBOARD_POLL_INTERVAL", "2500")
	t.Setenv("ALERTS_POLL_INTERVAL", "10s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MFA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.fraudguard.test", cfg.Backend.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Poll.DashboardPeriod)
	assert.Equal(t, 10*time.Second, cfg.Poll.AlertsPeriod)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.False(t, cfg.MFAEnabled)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"relative backend url", "BACKEND_URL", "localhost:8080"},
		{"zero poll interval", "DASHBOARD_POLL_INTERVAL", "0"},
		{"garbage interval", "ALERTS_POLL_INTERVAL", "soon"},
		{"short secret", "SESSION_SECRET", "tooshort"},
		{"bad bool", "SESSION_SECURE", "maybe"},
		{"bad level", "LOG_LEVEL", "loud"},
		{"non numeric port", "SERVER_PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "a-real-production-secret-of-enough-length")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestValidate_ReportsURLsInStableOrder(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Backend.BaseURL = "backend"
	cfg.Backend.AnalyzerURL = "analyzer"
	cfg.Geocoder.BaseURL = "geocoder"

	want := `BACKEND_URL must be an absolute URL, got "backend"` + "\n" +
		`ANALYZER_URL must be an absolute URL, got "analyzer"` + "\n" +
		`GEOCODER_URL must be an absolute URL, got "geocoder"`
	for range 20 {
		assert.EqualError(t, cfg.Validate(), want)
	}
}
