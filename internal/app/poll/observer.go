package poll

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/fraudguard-console/internal/app/observability/metrics"
)

// RecordMetrics is an Observer that exports cycle counts and durations.
func RecordMetrics(ctx context.Context, c Cycle) {
	outcome := "ok"
	switch {
	case c.Superseded:
		outcome = "superseded"
	case c.Err != nil:
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("view", c.View),
		attribute.String("outcome", outcome),
	)
	m := metrics.Get()
	m.PollCyclesTotal.Add(ctx, 1, attrs)
	if !c.Superseded {
		m.PollCycleDuration.Record(ctx, c.Duration.Seconds(), attrs)
	}
}
