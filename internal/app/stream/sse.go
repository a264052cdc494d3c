// Package stream pushes server-rendered fragments to the browser over
// Server-Sent Events.
package stream

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/observability/metrics"
)

type event struct {
	name string
	data string
}

// Emitter hands rendered fragments to the connection's writer loop. It is
// safe for concurrent use.
type Emitter struct {
	events chan event
	logger *zap.Logger
}

// Emit renders c and queues it as an SSE event called name. It blocks until
// the writer takes the event or ctx is done.
func (e *Emitter) Emit(ctx context.Context, name string, c templ.Component) {
	html, err := components.RenderString(ctx, c)
	if err != nil {
		e.logger.Error("Failed to render SSE fragment", zap.String("event", name), zap.Error(err))
		return
	}
	select {
	case e.events <- event{name: name, data: html}:
	case <-ctx.Done():
	}
}

// StartFunc starts the producers of a stream and returns the function that
// stops them.
type StartFunc func(ctx context.Context, emit *Emitter) (stop func(), err error)

// Serve turns the request into an SSE stream fed by start, until the client
// goes away. stop runs before Serve returns.
func Serve(c *gin.Context, logger *zap.Logger, kind string, start StartFunc) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		logger.Error("Response writer does not support flushing")
		c.String(http.StatusInternalServerError, "Streaming not supported")
		return
	}

	ctx := c.Request.Context()
	emitter := &Emitter{events: make(chan event, 4), logger: logger}
	stop, err := start(ctx, emitter)
	if err != nil {
		logger.Error("Failed to start stream", zap.String("stream", kind), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to start stream")
		return
	}
	defer stop()

	attrs := metric.WithAttributes(attribute.String("kind", "sse"), attribute.String("stream", kind))
	clients := metrics.Get().StreamClients
	clients.Add(ctx, 1, attrs)
	defer clients.Add(context.WithoutCancel(ctx), -1, attrs)

	c.Status(http.StatusOK)
	flusher.Flush()
	logger.Debug("SSE client connected", zap.String("stream", kind))

	for {
		select {
		case <-ctx.Done():
			logger.Debug("SSE client disconnected", zap.String("stream", kind))
			return
		case ev := <-emitter.events:
			c.SSEvent(ev.name, ev.data)
			flusher.Flush()
		}
	}
}
