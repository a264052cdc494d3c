package simulator

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/client"
	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/session"
)

const (
	pageTitle = "POS simulator - FraudGuard"
	navName   = "Simulator"
)

type SimulatorHandlers struct {
	*domain.BaseHandler
	runner  *Runner
	history *History
	logger  *zap.Logger
}

func NewSimulatorHandlers(base *domain.BaseHandler, runner *Runner, history *History, logger *zap.Logger) *SimulatorHandlers {
	return &SimulatorHandlers{
		BaseHandler: base,
		runner:      runner,
		history:     history,
		logger:      logger.With(zap.String("component", "simulator")),
	}
}

func historyKey(c *gin.Context) string {
	if s := session.Current(c); s != nil {
		return s.Username
	}
	return ""
}

func (h *SimulatorHandlers) Simulator(c *gin.Context) {
	h.RenderPage(c, pageTitle, navName, SimulatorPage(h.history.List(historyKey(c))))
}

// parseForm reads the POS form. Fields must be populated and numeric where
// the backend expects numbers; everything else is left to the backend. The
// returned problem is empty when the form is usable.
func parseForm(c *gin.Context) (models.FraudCheckRequest, string) {
	req := models.FraudCheckRequest{
		CCNumber: strings.TrimSpace(c.PostForm("cc_number")),
		Category: strings.TrimSpace(c.PostForm("category")),
	}

	if i, err := strconv.Atoi(c.PostForm("preset")); err == nil && i >= 0 && i < len(Locations) {
		req.Latitude, req.Longitude = Locations[i].Lat, Locations[i].Lon
	} else {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(c.PostForm("latitude")), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(c.PostForm("longitude")), 64)
		if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return req, "Latitude and longitude must be valid coordinates"
		}
		req.Latitude, req.Longitude = lat, lon
	}

	if req.CCNumber == "" {
		return req, "Card number is required"
	}
	if !slices.Contains(Categories, req.Category) {
		return req, fmt.Sprintf("Category %q is not supported", req.Category)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("amount")))
	if err != nil || !amount.IsPositive() {
		return req, "Amount must be a positive number"
	}
	req.Amount = amount
	return req, ""
}

func (h *SimulatorHandlers) Check(c *gin.Context) {
	h.submit(c, ScenarioSingle)
}

func (h *SimulatorHandlers) Burst(c *gin.Context) {
	h.submit(c, ScenarioBurst)
}

func (h *SimulatorHandlers) Velocity(c *gin.Context) {
	h.submit(c, ScenarioVelocity)
}

func (h *SimulatorHandlers) submit(c *gin.Context, scenario string) {
	user := historyKey(c)
	req, problem := parseForm(c)
	if problem != "" {
		h.Render(c, http.StatusBadRequest, ResultsPanel(h.history.List(user), &components.BannerProps{
			ID:      "simulator-error",
			Type:    components.BannerError,
			Message: problem,
		}))
		return
	}

	record := func(r Result) { h.history.Prepend(user, r) }
	ctx := c.Request.Context()
	var out Outcome
	switch scenario {
	case ScenarioBurst:
		out = h.runner.Burst(ctx, req, record)
	case ScenarioVelocity:
		out = h.runner.Velocity(ctx, req, record)
	default:
		out = h.runner.Single(ctx, req, record)
	}

	h.logger.Info("Simulation submitted",
		zap.String("scenario", scenario),
		zap.String("user", user),
		zap.Int("accepted", len(out.Results)),
		zap.Int("failed", out.Failed))

	if out.Err != nil && domain.StatusFor(out.Err) == http.StatusUnauthorized {
		h.RenderError(c, pageTitle, navName, out.Err)
		return
	}

	status := http.StatusOK
	var banner *components.BannerProps
	if out.Err != nil {
		h.logger.Warn("Simulation failed", zap.String("scenario", scenario), zap.Error(out.Err))
		banner = &components.BannerProps{
			ID:      "simulator-error",
			Type:    components.BannerError,
			Message: failureMessage(out.Err),
		}
		if len(out.Results) == 0 {
			status = domain.StatusFor(out.Err)
		} else {
			banner.Type = components.BannerWarning
			banner.Description = fmt.Sprintf("%d of %d submissions failed", out.Failed, out.Failed+len(out.Results))
		}
	}
	h.Render(c, status, ResultsPanel(h.history.List(user), banner))
}

// failureMessage prefers the backend's own explanation.
func failureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, models.ErrNetwork) {
		return domain.MessageFor(err)
	}
	return "Failed to process transaction"
}

func (h *SimulatorHandlers) Clear(c *gin.Context) {
	h.history.Clear(historyKey(c))
	h.Render(c, http.StatusOK, ResultsPanel(nil, nil))
}
