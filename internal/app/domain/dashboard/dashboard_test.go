package dashboard

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/client"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain/domaintest"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// fakeSource is an in-memory TransactionSource.
type fakeSource struct {
	mu    sync.Mutex
	txns  []models.Transaction
	stats *models.TransactionStats
	err   error

	// listErr fails only List; statsDelay makes Stats wait, honouring ctx.
	listErr    error
	statsDelay time.Duration

	listCalls  atomic.Int32
	statsCalls atomic.Int32
}

func (f *fakeSource) List(ctx context.Context) ([]models.Transaction, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.txns, nil
}

func (f *fakeSource) Stats(ctx context.Context) (*models.TransactionStats, error) {
	f.statsCalls.Add(1)
	if f.statsDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.statsDelay):
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func txn(n int, score float64) models.Transaction {
	return models.Transaction{
		ID:            models.ID(fmt.Sprint(n)),
		TransactionID: fmt.Sprintf("TXN-%03d", n),
		Amount:        decimal.NewFromInt(int64(n * 10)),
		Category:      "shopping_net",
		RiskScore:     &score,
		Status:        models.StatusApproved,
		Timestamp:     models.Timestamp{Time: base.Add(time.Duration(n) * time.Minute)},
	}
}

func manyTxns(n int) []models.Transaction {
	out := make([]models.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, txn(i, 0.1))
	}
	return out
}

func newHandlers(src TransactionSource, period time.Duration) *DashboardHandlers {
	return NewDashboardHandlers(domain.NewBaseHandler(zap.NewNop()), src, Options{Period: period, Limit: 20}, zap.NewNop())
}

func setup(src TransactionSource, period time.Duration) (*gin.Engine, *DashboardHandlers) {
	r := domaintest.NewRouter(domaintest.NewAccounts(domaintest.Analyst))
	h := newHandlers(src, period)
	g := domaintest.Authed(r)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/dashboard/stream", h.Stream)
	g.GET("/ws/transactions", h.Feed)
	return r, h
}

func TestDashboard_RendersLatestTransactionsAndStats(t *testing.T) {
	src := &fakeSource{
		txns:  manyTxns(25),
		stats: &models.TransactionStats{Total: 1234, HighRisk: 3, Critical: 2, MediumRisk: 10, LowRisk: 1219, Flagged: 5, Blocked: 2},
	}
	r, _ := setup(src, time.Second)
	cookies := domaintest.SignIn(t, r, "analyst")

	w := domaintest.Do(r, domaintest.Request{Path: "/dashboard", Cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)
	doc := domaintest.Doc(t, w)

	rows := doc.Find("#transactions tbody tr")
	require.Equal(t, 20, rows.Length())
	assert.Equal(t, "25", rows.First().AttrOr("data-id", ""))
	assert.Equal(t, "6", rows.Last().AttrOr("data-id", ""))

	assert.Contains(t, doc.Find(`[data-stat="total"]`).Text(), "1,234")
	assert.Contains(t, doc.Find(`[data-stat="critical"]`).Text(), "2")
	assert.Equal(t, "/dashboard/stream", doc.Find("#dashboard").AttrOr("sse-connect", ""))
	assert.Equal(t, int32(1), src.listCalls.Load())
	assert.Equal(t, int32(1), src.statsCalls.Load())
}

func TestDashboard_BackendDownStillRendersPage(t *testing.T) {
	src := &fakeSource{err: &client.NetworkError{Op: "GET /api/transactions", Err: fmt.Errorf("connection refused")}}
	r, _ := setup(src, time.Second)
	cookies := domaintest.SignIn(t, r, "analyst")

	w := domaintest.Do(r, domaintest.Request{Path: "/dashboard", Cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)
	doc := domaintest.Doc(t, w)
	assert.Equal(t, 1, doc.Find("#dashboard-load-error").Length())
	assert.Equal(t, 1, doc.Find(`[data-stat="unavailable"]`).Length())
	assert.Equal(t, 1, doc.Find("#transactions tr[data-empty]").Length())
}

func TestDashboard_StatsSurviveFailedList(t *testing.T) {
	src := &fakeSource{
		listErr:    &client.NetworkError{Op: "GET /api/transactions", Err: fmt.Errorf("connection reset")},
		stats:      &models.TransactionStats{Total: 42},
		statsDelay: 50 * time.Millisecond,
	}
	r, _ := setup(src, time.Second)
	cookies := domaintest.SignIn(t, r, "analyst")

	w := domaintest.Do(r, domaintest.Request{Path: "/dashboard", Cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)
	doc := domaintest.Doc(t, w)
	assert.Equal(t, 1, doc.Find("#dashboard-load-error").Length())
	assert.Equal(t, 0, doc.Find(`[data-stat="unavailable"]`).Length())
	assert.Contains(t, doc.Find(`[data-stat="total"]`).Text(), "42")
}

func TestDashboard_ExpiredTokenSignsOut(t *testing.T) {
	src := &fakeSource{err: &client.APIError{StatusCode: http.StatusUnauthorized}}
	r, _ := setup(src, time.Second)
	cookies := domaintest.SignIn(t, r, "analyst")

	w := domaintest.Do(r, domaintest.Request{Path: "/dashboard", Cookies: cookies})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = domaintest.Do(r, domaintest.Request{Path: "/dashboard", Cookies: w.Result().Cookies()})
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestDashboard_RequiresSession(t *testing.T) {
	r, _ := setup(&fakeSource{}, time.Second)

	w := domaintest.Do(r, domaintest.Request{Path: "/dashboard", HTMX: true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))
}

func TestStream_PushesFragmentsAndStopsPolling(t *testing.T) {
	src := &fakeSource{txns: manyTxns(3), stats: &models.TransactionStats{Total: 3}}
	r, _ := setup(src, 20*time.Millisecond)
	cookies := domaintest.SignIn(t, r, "analyst")
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/dashboard/stream", nil)
	require.NoError(t, err)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	seen := map[string]string{}
	scanner := bufio.NewScanner(resp.Body)
	var current string
	for scanner.Scan() && len(seen) < 3 {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			current = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:") && current != "":
			seen[current] = strings.TrimPrefix(line, "data:")
		}
	}
	require.Contains(t, seen, "transactions")
	require.Contains(t, seen, "stats")
	require.Contains(t, seen, "status")
	assert.Contains(t, seen["transactions"], `data-id="3"`)
	assert.Contains(t, seen["status"], `data-live="ok"`)

	cancel()
	// Let the handler observe the disconnect, then check polling stopped.
	time.Sleep(100 * time.Millisecond)
	before := src.listCalls.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, src.listCalls.Load())
}

func TestFeed_SendsJSONSnapshots(t *testing.T) {
	src := &fakeSource{txns: manyTxns(25)}
	r, _ := setup(src, 50*time.Millisecond)
	cookies := domaintest.SignIn(t, r, "analyst")
	srv := httptest.NewServer(r)
	defer srv.Close()

	header := http.Header{}
	for _, ck := range cookies {
		header.Add("Cookie", ck.Name+"="+ck.Value)
	}
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/transactions", header)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg FeedMessage
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, "transactions", msg.Type)
	require.Len(t, msg.Data, 20)
	assert.Equal(t, models.ID("25"), msg.Data[0].ID)

	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, "transactions", msg.Type)
}

func TestStatsCards(t *testing.T) {
	html, err := renderString(StatsCards(&models.TransactionStats{Total: 10, Blocked: 4}))
	require.NoError(t, err)
	assert.Contains(t, html, `data-stat="blocked"`)

	html, err = renderString(StatsCards(nil))
	require.NoError(t, err)
	assert.Contains(t, html, "Statistics unavailable")
}
