package domain

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/client"
	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/middleware"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/renderer"
	"github.com/FACorreiaa/fraudguard-console/internal/app/session"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

func (h *BaseHandler) NewLayoutData(c *gin.Context, title, activeNav string, content templ.Component) models.LayoutTempl {
	current := session.Current(c)
	return models.LayoutTempl{
		Title:     title,
		Session:   current,
		Nav:       models.NavFor(current),
		ActiveNav: activeNav,
		Content:   content,
	}
}

func (h *BaseHandler) Render(c *gin.Context, status int, component templ.Component) {
	if err := renderer.New(c, status, component).Render(c.Writer); err != nil {
		h.Logger.Error("Failed to render component", zap.String("path", c.FullPath()), zap.Error(err))
	}
}

// RenderPage renders content inside the layout. htmx-boosted requests get the
// full document as well; htmx swaps the body.
func (h *BaseHandler) RenderPage(c *gin.Context, title, activeNav string, content templ.Component) {
	h.RenderPageStatus(c, http.StatusOK, title, activeNav, content)
}

func (h *BaseHandler) RenderPageStatus(c *gin.Context, status int, title, activeNav string, content templ.Component) {
	h.Render(c, status, components.LayoutPage(h.NewLayoutData(c, title, activeNav, content)))
}

func (h *BaseHandler) NotFound(c *gin.Context) {
	h.RenderPageStatus(c, http.StatusNotFound, "Not found - FraudGuard", "", components.NotFoundPage())
}

// StatusFor maps a client error onto the status the console answers with.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNetwork), client.StatusCode(err) >= 500:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor is the user-facing text for err.
func MessageFor(err error) string {
	switch StatusFor(err) {
	case http.StatusBadRequest:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return "The request was rejected. Check the form and try again."
	case http.StatusUnauthorized:
		return "Your session has expired. Please sign in again."
	case http.StatusForbidden:
		return "You do not have permission to do that."
	case http.StatusNotFound:
		return "The requested item could not be found."
	case http.StatusBadGateway:
		return "The fraud monitoring service is unreachable. Try again shortly."
	default:
		return "Something went wrong."
	}
}

// RenderError answers a failed backend call. A 401 from the backend means
// the token is no longer valid, so the session is dropped.
func (h *BaseHandler) RenderError(c *gin.Context, title, activeNav string, err error) {
	status := StatusFor(err)
	h.Logger.Warn("Backend call failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err))

	if status == http.StatusUnauthorized {
		if store := session.FromContext(c); store != nil {
			_ = store.Logout()
		}
		if middleware.IsHTMX(c) {
			c.Header("HX-Redirect", "/login")
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if status == http.StatusNotFound && !middleware.IsHTMX(c) {
		h.NotFound(c)
		return
	}
	if middleware.IsHTMX(c) {
		h.Render(c, status, components.ErrorBanner("request-error", MessageFor(err)))
		return
	}
	h.RenderPageStatus(c, status, title, activeNav, components.ErrorPanel(status, MessageFor(err)))
}
