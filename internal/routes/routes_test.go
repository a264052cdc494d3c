package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/domaintest"
	"github.com/FACorreiaa/fraudguard-console/internal/pkg/config"
)

func newConsole(t *testing.T) *gin.Engine {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	clients, err := NewClients(cfg, zap.NewNop())
	require.NoError(t, err)

	r := domaintest.NewRouter(domaintest.NewAccounts(domaintest.Analyst))
	Setup(r, cfg, clients, "test", zap.NewNop())
	return r
}

func TestLogout_OnlyAcceptsPost(t *testing.T) {
	r := newConsole(t)
	cookies := domaintest.SignIn(t, r, "analyst")

	w := domaintest.Do(r, domaintest.Request{Path: "/logout", Cookies: cookies})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = domaintest.Do(r, domaintest.Request{Path: "/settings", Cookies: cookies})
	assert.Equal(t, http.StatusOK, w.Code, "a GET must not end the session")

	w = domaintest.Do(r, domaintest.Request{Method: http.MethodPost, Path: "/logout", Cookies: cookies})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = domaintest.Do(r, domaintest.Request{Path: "/settings", Cookies: w.Result().Cookies()})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
