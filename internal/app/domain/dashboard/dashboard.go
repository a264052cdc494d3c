package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/poll"
	"github.com/FACorreiaa/fraudguard-console/internal/app/stream"
)

const (
	pageTitle = "Dashboard - FraudGuard"
	navName   = "Dashboard"
)

// TransactionSource is the part of the transactions client the dashboard reads.
type TransactionSource interface {
	List(ctx context.Context) ([]models.Transaction, error)
	Stats(ctx context.Context) (*models.TransactionStats, error)
}

type Options struct {
	Period time.Duration
	Limit  int
	// Clock drives the pollers; nil means wall time.
	Clock poll.Clock
}

type DashboardHandlers struct {
	*domain.BaseHandler
	source   TransactionSource
	opts     Options
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewDashboardHandlers(base *domain.BaseHandler, source TransactionSource, opts Options, logger *zap.Logger) *DashboardHandlers {
	if opts.Clock == nil {
		opts.Clock = poll.RealClock()
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	return &DashboardHandlers{
		BaseHandler: base,
		source:      source,
		opts:        opts,
		logger:      logger.With(zap.String("component", "dashboard")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *DashboardHandlers) latest(txns []models.Transaction) []models.Transaction {
	return models.LatestTransactions(txns, h.opts.Limit)
}

// Dashboard renders the first frame. Both resources are fetched concurrently;
// a backend failure still renders the page so the stream can recover it.
func (h *DashboardHandlers) Dashboard(c *gin.Context) {
	var (
		txns  []models.Transaction
		stats *models.TransactionStats
	)
	// Each fetch stands alone so stats still render when the list fails.
	var g errgroup.Group
	ctx := c.Request.Context()
	g.Go(func() error {
		list, err := h.source.List(ctx)
		if err != nil {
			return err
		}
		txns = h.latest(list)
		return nil
	})
	g.Go(func() error {
		s, err := h.source.Stats(ctx)
		if err != nil {
			return err
		}
		stats = s
		return nil
	})

	var banner *components.BannerProps
	if err := g.Wait(); err != nil {
		if domain.StatusFor(err) == http.StatusUnauthorized {
			h.RenderError(c, pageTitle, navName, err)
			return
		}
		h.logger.Warn("Initial dashboard load failed", zap.Error(err))
		banner = &components.BannerProps{
			ID:      "dashboard-load-error",
			Type:    components.BannerWarning,
			Message: domain.MessageFor(err),
		}
	}

	h.RenderPage(c, pageTitle, navName, DashboardPage(DashboardData{
		Transactions: txns,
		Stats:        stats,
		Banner:       banner,
		UpdatedAt:    h.opts.Clock.Now(),
	}))
}

func (h *DashboardHandlers) transactionsView(onUpdate func(context.Context, []models.Transaction), observer poll.Observer) *poll.View[[]models.Transaction] {
	return poll.NewView[[]models.Transaction]("dashboard-transactions", h.source.List,
		poll.WithPeriod[[]models.Transaction](h.opts.Period),
		poll.WithTransform(h.latest),
		poll.WithOnUpdate(onUpdate),
		poll.WithClock[[]models.Transaction](h.opts.Clock),
		poll.WithLogger[[]models.Transaction](h.logger),
		poll.WithObserver[[]models.Transaction](observer),
	)
}

func (h *DashboardHandlers) statsView(onUpdate func(context.Context, *models.TransactionStats), observer poll.Observer) *poll.View[*models.TransactionStats] {
	return poll.NewView[*models.TransactionStats]("dashboard-stats", h.source.Stats,
		poll.WithPeriod[*models.TransactionStats](h.opts.Period),
		poll.WithOnUpdate(onUpdate),
		poll.WithClock[*models.TransactionStats](h.opts.Clock),
		poll.WithLogger[*models.TransactionStats](h.logger),
		poll.WithObserver[*models.TransactionStats](observer),
	)
}

// Stream pushes the transactions table body, the stats cards and a liveness
// line over SSE, polling both resources for as long as the client listens.
func (h *DashboardHandlers) Stream(c *gin.Context) {
	stream.Serve(c, h.logger, "dashboard", func(ctx context.Context, emit *stream.Emitter) (func(), error) {
		observer := func(oc context.Context, cy poll.Cycle) {
			poll.RecordMetrics(oc, cy)
			if cy.Superseded || cy.View != "dashboard-transactions" {
				return
			}
			emit.Emit(ctx, "status", components.LiveStatus(cy.Err, h.opts.Clock.Now().Format("15:04:05")))
		}

		txns := h.transactionsView(func(ctx context.Context, txns []models.Transaction) {
			emit.Emit(ctx, "transactions", components.TransactionRows(txns, emptyText))
		}, observer)
		stats := h.statsView(func(ctx context.Context, s *models.TransactionStats) {
			emit.Emit(ctx, "stats", StatsCards(s))
		}, observer)

		txnsHandle, err := txns.Mount(ctx)
		if err != nil {
			return nil, err
		}
		statsHandle, err := stats.Mount(ctx)
		if err != nil {
			txnsHandle.Stop()
			return nil, err
		}
		return func() {
			txnsHandle.Stop()
			statsHandle.Stop()
		}, nil
	})
}

// FeedMessage is one frame of the JSON WebSocket feed.
type FeedMessage struct {
	Type      string               `json:"type"`
	Data      []models.Transaction `json:"data,omitempty"`
	Message   string               `json:"message,omitempty"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Feed serves the latest transactions as JSON over a WebSocket. The browser
// only reads; any read error ends the connection.
func (h *DashboardHandlers) Feed(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Warn("WebSocket read error", zap.Error(err))
				}
				return
			}
		}
	}()

	view := h.transactionsView(func(ctx context.Context, txns []models.Transaction) {
		err := ws.WriteJSON(FeedMessage{Type: "transactions", Data: txns, UpdatedAt: h.opts.Clock.Now()})
		if err != nil {
			h.logger.Debug("WebSocket write failed", zap.Error(err))
			cancel()
		}
	}, poll.RecordMetrics)

	handle, err := view.Mount(ctx)
	if err != nil {
		h.logger.Error("Failed to start transaction feed", zap.Error(err))
		_ = ws.WriteJSON(FeedMessage{Type: "error", Message: "Failed to start feed", UpdatedAt: h.opts.Clock.Now()})
		return
	}
	defer handle.Stop()

	h.logger.Debug("WebSocket feed connected")
	<-ctx.Done()
}
