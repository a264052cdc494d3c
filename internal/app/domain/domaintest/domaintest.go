// Package domaintest wires a gin engine with cookie sessions for handler
// tests, so tests can sign in through the real session store.
package domaintest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/middleware"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/session"
)

const signInPath = "/__test/sign-in"

var (
	Analyst = &models.Session{Token: "analyst-token", UserID: 7, Username: "analyst", Role: models.RoleAnalyst, Email: "analyst@fraudguard.io"}
	Admin   = &models.Session{Token: "admin-token", UserID: 1, Username: "admin", Role: models.RoleAdmin, Email: "admin@fraudguard.io"}
)

// Accounts is an Authenticator over a fixed set of sessions; every password
// is "pw".
type Accounts struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	Err      error
}

func NewAccounts(sessions ...*models.Session) *Accounts {
	a := &Accounts{sessions: map[string]*models.Session{}}
	for _, s := range sessions {
		a.sessions[s.Username] = s
	}
	return a
}

func (a *Accounts) Login(_ context.Context, creds models.Credentials) (*models.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	s, ok := a.sessions[creds.Username]
	if !ok || creds.Password != "pw" {
		return nil, models.ErrUnauthenticated
	}
	cp := *s
	return &cp, nil
}

// NewRouter returns an engine with the session middleware installed and a
// sign-in route used by SignIn.
func NewRouter(auth session.Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	opts := sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true}
	cs := cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))
	cs.Options(opts)

	r := gin.New()
	r.Use(sessions.Sessions("fraudguard_session", cs))
	r.Use(session.Middleware(auth, opts, zap.NewNop()))
	r.POST(signInPath, func(c *gin.Context) {
		_, err := session.FromContext(c).Login(c.Request.Context(), models.Credentials{
			Username: c.PostForm("username"),
			Password: c.PostForm("password"),
		})
		if err != nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

// Authed returns a route group behind RequireAuth.
func Authed(r *gin.Engine) *gin.RouterGroup {
	return r.Group("/", middleware.RequireAuth())
}

// SignIn logs username in and returns the session cookies.
func SignIn(t *testing.T, r http.Handler, username string) []*http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {"pw"}}
	w := Do(r, Request{Method: http.MethodPost, Path: signInPath, Form: form})
	require.Equal(t, http.StatusNoContent, w.Code, "sign in as %s", username)
	return w.Result().Cookies()
}

type Request struct {
	Method  string
	Path    string
	Form    url.Values
	Cookies []*http.Cookie
	HTMX    bool
}

func Do(r http.Handler, req Request) *httptest.ResponseRecorder {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	var httpReq *http.Request
	if req.Form != nil {
		httpReq = httptest.NewRequest(req.Method, req.Path, strings.NewReader(req.Form.Encode()))
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		httpReq = httptest.NewRequest(req.Method, req.Path, nil)
	}
	if req.HTMX {
		httpReq.Header.Set("HX-Request", "true")
	}
	for _, ck := range req.Cookies {
		httpReq.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func Doc(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}
