package settings

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/session"
)

type SettingsHandlers struct {
	*domain.BaseHandler
	mfaEnabled bool
	logger     *zap.Logger
}

func NewSettingsHandlers(base *domain.BaseHandler, mfaEnabled bool, logger *zap.Logger) *SettingsHandlers {
	return &SettingsHandlers{
		BaseHandler: base,
		mfaEnabled:  mfaEnabled,
		logger:      logger,
	}
}

// Settings shows the signed-in profile. Nothing on the page is editable; the
// profile belongs to the backend.
func (h *SettingsHandlers) Settings(c *gin.Context) {
	current := session.Current(c)
	h.logger.Debug("Settings page requested", zap.String("user", current.DisplayName()))
	h.RenderPage(c, "Settings - FraudGuard", "Settings", SettingsPage(current, h.mfaEnabled))
}
