package alerts

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/poll"
	"github.com/FACorreiaa/fraudguard-console/internal/app/stream"
)

const (
	pageTitle = "High-risk alerts - FraudGuard"
	navName   = "Alerts"
	viewName  = "high-risk-alerts"
)

type HighRiskSource interface {
	HighRisk(ctx context.Context) ([]models.Transaction, error)
}

type AlertsHandlers struct {
	*domain.BaseHandler
	source HighRiskSource
	period time.Duration
	clock  poll.Clock
	logger *zap.Logger
}

func NewAlertsHandlers(base *domain.BaseHandler, source HighRiskSource, period time.Duration, logger *zap.Logger) *AlertsHandlers {
	return &AlertsHandlers{
		BaseHandler: base,
		source:      source,
		period:      period,
		clock:       poll.RealClock(),
		logger:      logger.With(zap.String("component", "alerts")),
	}
}

func newestFirst(txns []models.Transaction) []models.Transaction {
	return models.LatestTransactions(txns, 0)
}

func (h *AlertsHandlers) Alerts(c *gin.Context) {
	txns, err := h.source.HighRisk(c.Request.Context())
	if err != nil {
		h.RenderError(c, pageTitle, navName, err)
		return
	}
	h.RenderPage(c, pageTitle, navName, AlertsPage(newestFirst(txns), h.period))
}

// Stream re-sends the alert list on every successful poll.
func (h *AlertsHandlers) Stream(c *gin.Context) {
	stream.Serve(c, h.logger, "alerts", func(ctx context.Context, emit *stream.Emitter) (func(), error) {
		view := poll.NewView[[]models.Transaction](viewName, h.source.HighRisk,
			poll.WithPeriod[[]models.Transaction](h.period),
			poll.WithTransform(newestFirst),
			poll.WithOnUpdate(func(ctx context.Context, txns []models.Transaction) {
				emit.Emit(ctx, "alerts", AlertsBody(txns))
			}),
			poll.WithClock[[]models.Transaction](h.clock),
			poll.WithLogger[[]models.Transaction](h.logger),
			poll.WithObserver[[]models.Transaction](poll.RecordMetrics),
		)
		handle, err := view.Mount(ctx)
		if err != nil {
			return nil, err
		}
		return handle.Stop, nil
	})
}

// Legacy keeps the original /high-risk-alerts address working.
func Legacy(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, "/alerts")
}
