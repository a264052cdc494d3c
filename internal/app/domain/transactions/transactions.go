package transactions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/middleware"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/session"
)

const navName = "Dashboard"

type TransactionStore interface {
	Get(ctx context.Context, id models.ID) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id models.ID, status string) (*models.Transaction, error)
	Delete(ctx context.Context, id models.ID) error
}

// Explainer produces a natural-language reason for a transaction's score.
type Explainer interface {
	Explain(ctx context.Context, txn models.Transaction) (string, error)
}

// Locator turns coordinates into a place name; it never fails.
type Locator interface {
	Describe(ctx context.Context, lat, lon float64) string
}

type TransactionHandlers struct {
	*domain.BaseHandler
	store     TransactionStore
	explainer Explainer
	locator   Locator
	logger    *zap.Logger
}

func NewTransactionHandlers(base *domain.BaseHandler, store TransactionStore, explainer Explainer, locator Locator, logger *zap.Logger) *TransactionHandlers {
	return &TransactionHandlers{
		BaseHandler: base,
		store:       store,
		explainer:   explainer,
		locator:     locator,
		logger:      logger.With(zap.String("component", "transactions")),
	}
}

func pageTitle(txn *models.Transaction) string {
	return fmt.Sprintf("Transaction %s - FraudGuard", txn.Reference())
}

func (h *TransactionHandlers) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	id := models.ID(c.Param("id"))

	txn, err := h.store.Get(ctx, id)
	if err != nil {
		h.RenderError(c, "Transaction - FraudGuard", navName, err)
		return
	}

	data := DetailData{
		Transaction: *txn,
		CanDelete:   session.Current(c).IsAdmin(),
	}
	if txn.HasLocation() {
		data.Location = h.locator.Describe(ctx, *txn.Latitude, *txn.Longitude)
	}
	h.RenderPage(c, pageTitle(txn), navName, DetailPage(data))
}

// UpdateStatus records an analyst's verdict. The status panel is re-rendered
// from the requested value without re-reading the record; the next poll of
// any list view brings the backend's copy.
func (h *TransactionHandlers) UpdateStatus(c *gin.Context) {
	id := models.ID(c.Param("id"))
	status := strings.ToUpper(strings.TrimSpace(c.PostForm("status")))

	if !slices.Contains(models.ReviewStatuses, status) {
		h.Render(c, http.StatusBadRequest, StatusPanel(id, "", &components.BannerProps{
			ID:      "status-error",
			Type:    components.BannerError,
			Message: fmt.Sprintf("%q is not a valid review status", status),
		}))
		return
	}

	if _, err := h.store.UpdateStatus(c.Request.Context(), id, status); err != nil {
		if domain.StatusFor(err) == http.StatusUnauthorized {
			h.RenderError(c, "", navName, err)
			return
		}
		h.logger.Warn("Failed to update transaction status",
			zap.String("transaction_id", id.String()),
			zap.String("status", status),
			zap.Error(err))
		h.Render(c, domain.StatusFor(err), StatusPanel(id, "", &components.BannerProps{
			ID:      "status-error",
			Type:    components.BannerError,
			Message: domain.MessageFor(err),
		}))
		return
	}

	h.logger.Info("Transaction status updated",
		zap.String("transaction_id", id.String()),
		zap.String("status", status))
	h.Render(c, http.StatusOK, StatusPanel(id, status, &components.BannerProps{
		ID:          "status-updated",
		Type:        components.BannerSuccess,
		Message:     fmt.Sprintf("Transaction marked as %s.", components.Label(status)),
		Description: "Thank you for your feedback.",
		Dismissable: true,
	}))
}

// Analyze asks the analysis service to explain the transaction's score.
func (h *TransactionHandlers) Analyze(c *gin.Context) {
	ctx := c.Request.Context()
	id := models.ID(c.Param("id"))

	txn, err := h.store.Get(ctx, id)
	if err != nil {
		if domain.StatusFor(err) == http.StatusUnauthorized {
			h.RenderError(c, "", navName, err)
			return
		}
		h.Render(c, domain.StatusFor(err), AnalysisPanel("", domain.MessageFor(err)))
		return
	}

	reason, err := h.explainer.Explain(ctx, *txn)
	if err != nil {
		h.logger.Warn("Transaction analysis failed", zap.String("transaction_id", id.String()), zap.Error(err))
		msg := "The analysis service could not explain this transaction."
		if errors.Is(err, models.ErrNetwork) {
			msg = "The analysis service is unreachable. Try again shortly."
		}
		h.Render(c, http.StatusBadGateway, AnalysisPanel("", msg))
		return
	}
	h.Render(c, http.StatusOK, AnalysisPanel(reason, ""))
}

func (h *TransactionHandlers) Delete(c *gin.Context) {
	id := models.ID(c.Param("id"))
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.RenderError(c, "Transaction - FraudGuard", navName, err)
		return
	}
	h.logger.Info("Transaction deleted",
		zap.String("transaction_id", id.String()),
		zap.String("by", session.Current(c).DisplayName()))

	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", "/dashboard")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}
