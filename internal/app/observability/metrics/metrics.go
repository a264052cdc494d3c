package metrics

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "fraudguard-console"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	AuthRequestsTotal      metric.Int64Counter
	SessionTransitions     metric.Int64Counter
	BackendRequestDuration metric.Float64Histogram
	PollCyclesTotal        metric.Int64Counter
	PollCycleDuration      metric.Float64Histogram
	ActiveViews            metric.Int64UpDownCounter
	StreamClients          metric.Int64UpDownCounter
	TemplateRenderDuration metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once, from the global MeterProvider.
// Call it after the provider is installed so the instruments export.
func InitAppMetrics() {
	once.Do(func() {
		appMetrics = build(otel.GetMeterProvider().Meter(meterName))
	})
}

// Get returns the instruments. If InitAppMetrics was never called (tests,
// tooling) they are bound to whatever global provider is installed, which
// defaults to a no-op.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

func build(meter metric.Meter) *AppMetrics {
	m := &AppMetrics{}
	var err error

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests completed"),
		metric.WithUnit("{request}"),
	)
	warn("http_requests_total", err)

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	warn("http_request_duration_seconds", err)

	m.AuthRequestsTotal, err = meter.Int64Counter(
		"auth_requests_total",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{request}"),
	)
	warn("auth_requests_total", err)

	m.SessionTransitions, err = meter.Int64Counter(
		"session_transitions_total",
		metric.WithDescription("Session store login and logout transitions"),
		metric.WithUnit("{transition}"),
	)
	warn("session_transitions_total", err)

	m.BackendRequestDuration, err = meter.Float64Histogram(
		"backend_request_duration_seconds",
		metric.WithDescription("Duration of calls to backend services in seconds"),
		metric.WithUnit("s"),
	)
	warn("backend_request_duration_seconds", err)

	m.PollCyclesTotal, err = meter.Int64Counter(
		"poll_cycles_total",
		metric.WithDescription("Poll cycles by view and outcome"),
		metric.WithUnit("{cycle}"),
	)
	warn("poll_cycles_total", err)

	m.PollCycleDuration, err = meter.Float64Histogram(
		"poll_cycle_duration_seconds",
		metric.WithDescription("Duration of poll fetches in seconds"),
		metric.WithUnit("s"),
	)
	warn("poll_cycle_duration_seconds", err)

	m.ActiveViews, err = meter.Int64UpDownCounter(
		"poll_views_active",
		metric.WithDescription("Currently mounted poll-driven views"),
		metric.WithUnit("{view}"),
	)
	warn("poll_views_active", err)

	m.StreamClients, err = meter.Int64UpDownCounter(
		"stream_clients_active",
		metric.WithDescription("Connected SSE and WebSocket clients"),
		metric.WithUnit("{client}"),
	)
	warn("stream_clients_active", err)

	m.TemplateRenderDuration, err = meter.Float64Histogram(
		"template_render_duration_seconds",
		metric.WithDescription("Duration of template rendering in seconds"),
		metric.WithUnit("s"),
	)
	warn("template_render_duration_seconds", err)

	return m
}

// The API returns a usable no-op instrument alongside any error, so a
// failure here is reported rather than fatal.
func warn(name string, err error) {
	if err != nil {
		zap.L().Warn("metrics: failed to create instrument", zap.String("instrument", name), zap.Error(err))
	}
}
