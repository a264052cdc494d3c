package home

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/session"
)

type HomeHandlers struct {
	*domain.BaseHandler
	version string
}

func NewHomeHandlers(base *domain.BaseHandler, version string) *HomeHandlers {
	return &HomeHandlers{BaseHandler: base, version: version}
}

// ShowHomePage sends signed-in users to the dashboard and everyone else to
// the login form.
func (h *HomeHandlers) ShowHomePage(c *gin.Context) {
	target := "/login"
	if session.Current(c) != nil {
		target = "/dashboard"
	}
	c.Redirect(http.StatusFound, target)
}

func (h *HomeHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
