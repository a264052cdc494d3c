package session

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/observability/metrics"
)

const contextKey = "session_store"

// Middleware builds a Store over the request's cookie session and exposes it
// through FromContext. It must run after sessions.Sessions.
func Middleware(auth Authenticator, opts sessions.Options, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := NewStore(NewCookieStorage(sessions.Default(c), opts), auth, logger)
		updates, cancel := store.Subscribe()
		defer cancel()
		before := <-updates

		c.Set(contextKey, store)
		c.Next()

		select {
		case after := <-updates:
			observeTransition(c.Request.Context(), logger, before, after)
		default:
		}
	}
}

func observeTransition(ctx context.Context, logger *zap.Logger, before, after *models.Session) {
	var kind string
	switch {
	case before == nil && after != nil:
		kind = "login"
		logger.Info("User signed in",
			zap.Int64("user_id", after.UserID),
			zap.String("username", after.Username),
			zap.String("role", string(after.Role)))
	case before != nil && after == nil:
		kind = "logout"
		logger.Info("User signed out", zap.String("username", before.Username))
	case before != nil && after != nil && before.Token != after.Token:
		kind = "relogin"
		logger.Info("User session replaced", zap.String("username", after.Username))
	default:
		return
	}
	metrics.Get().SessionTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// FromContext returns the request's Store, or nil outside Middleware.
func FromContext(c *gin.Context) *Store {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	store, _ := v.(*Store)
	return store
}

// Current is a shorthand for FromContext(c).Current() that tolerates a
// missing store.
func Current(c *gin.Context) *models.Session {
	if store := FromContext(c); store != nil {
		return store.Current()
	}
	return nil
}
