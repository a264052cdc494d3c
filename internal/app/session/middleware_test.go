package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

func setupRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	opts := sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true}
	cs := cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))
	cs.Options(opts)

	r := gin.New()
	r.Use(sessions.Sessions("fraudguard_session", cs))
	r.Use(Middleware(auth, opts, zap.NewNop()))
	r.POST("/login", func(c *gin.Context) {
		_, err := FromContext(c).Login(c.Request.Context(), models.Credentials{
			Username: c.PostForm("username"),
			Password: c.PostForm("password"),
		})
		if err != nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.POST("/logout", func(c *gin.Context) {
		_ = FromContext(c).Logout()
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", func(c *gin.Context) {
		if s := Current(c); s != nil {
			c.String(http.StatusOK, s.Username)
			return
		}
		c.Status(http.StatusUnauthorized)
	})
	return r
}

func postForm(r http.Handler, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_SessionSurvivesRequests(t *testing.T) {
	auth := &MockAuthenticator{}
	auth.On("Login", mock.Anything, models.Credentials{Username: "analyst", Password: "pw"}).Return(analyst, nil)
	auth.On("Login", mock.Anything, mock.Anything).Return(nil, models.ErrUnauthenticated)
	r := setupRouter(auth)

	w := postForm(r, "/login", "username=analyst&password=pw", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "fraudguard_session", cookies[0].Name)

	w = get(r, "/me", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "analyst", w.Body.String())

	w = postForm(r, "/logout", "", cookies)
	require.Equal(t, http.StatusNoContent, w.Code)
	cleared := w.Result().Cookies()

	w = get(r, "/me", cleared)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_FailedLoginSetsNoSession(t *testing.T) {
	auth := &MockAuthenticator{}
	auth.On("Login", mock.Anything, mock.Anything).Return(nil, models.ErrUnauthenticated)
	r := setupRouter(auth)

	w := postForm(r, "/login", "username=analyst&password=wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/me", w.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
