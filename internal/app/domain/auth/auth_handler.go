package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/middleware"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/observability/metrics"
	"github.com/FACorreiaa/fraudguard-console/internal/app/session"
)

const pageTitle = "Sign in - FraudGuard"

type AuthHandlers struct {
	*domain.BaseHandler
	logger *zap.Logger
}

func NewAuthHandlers(base *domain.BaseHandler, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{BaseHandler: base, logger: logger}
}

func (h *AuthHandlers) ShowLogin(c *gin.Context) {
	h.RenderPage(c, pageTitle, "", LoginPage("", nil))
}

// Login signs the user in through the session store. Failures are answered
// with an inline banner; success redirects to the dashboard.
func (h *AuthHandlers) Login(c *gin.Context) {
	store := session.FromContext(c)
	creds := models.Credentials{
		Username: strings.TrimSpace(c.PostForm("username")),
		Password: c.PostForm("password"),
	}

	if creds.Username == "" || creds.Password == "" {
		h.recordOutcome(c, "invalid")
		h.fail(c, http.StatusBadRequest, creds.Username, components.BannerProps{
			ID:      "login-error",
			Type:    components.BannerError,
			Message: "Username and password are required",
		})
		return
	}

	s, err := store.Login(c.Request.Context(), creds)
	if err != nil {
		banner := components.BannerProps{ID: "login-error", Type: components.BannerError, Dismissable: true}
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, models.ErrUnauthenticated):
			status = http.StatusUnauthorized
			banner.Message = "Invalid username or password"
			banner.Description = "Please check your credentials and try again"
			h.recordOutcome(c, "rejected")
			h.logger.Warn("Invalid login credentials", zap.String("username", creds.Username))
		case errors.Is(err, models.ErrNetwork):
			status = http.StatusBadGateway
			banner.Message = "Cannot reach the server"
			banner.Description = "The fraud monitoring service did not respond. Try again shortly."
			h.recordOutcome(c, "unreachable")
			h.logger.Error("Login backend unreachable", zap.Error(err))
		default:
			banner.Message = "Sign in failed"
			banner.Description = domain.MessageFor(err)
			h.recordOutcome(c, "error")
			h.logger.Error("Login failed", zap.String("username", creds.Username), zap.Error(err))
		}
		h.fail(c, status, creds.Username, banner)
		return
	}

	h.recordOutcome(c, "success")
	h.logger.Info("Successful login", zap.Int64("user_id", s.UserID), zap.String("username", s.Username))

	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", "/dashboard")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthHandlers) fail(c *gin.Context, status int, username string, banner components.BannerProps) {
	if middleware.IsHTMX(c) {
		h.Render(c, status, components.Banner(banner))
		return
	}
	h.RenderPageStatus(c, status, pageTitle, "", LoginPage(username, &banner))
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	if store := session.FromContext(c); store != nil {
		if err := store.Logout(); err != nil {
			h.logger.Warn("Failed to persist logout", zap.Error(err))
		}
	}
	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", "/login")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandlers) recordOutcome(c *gin.Context, outcome string) {
	metrics.Get().AuthRequestsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
}
