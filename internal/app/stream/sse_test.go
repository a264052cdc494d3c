package stream

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
)

func TestServe_StreamsEventsAndStopsOnDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var stopped atomic.Bool
	stopCh := make(chan struct{})

	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		Serve(c, zap.NewNop(), "test", func(ctx context.Context, emit *Emitter) (func(), error) {
			go emit.Emit(ctx, "greeting", components.Banner(components.BannerProps{ID: "hello", Message: "hi <there>"}))
			return func() {
				stopped.Store(true)
				close(stopCh)
			}, nil
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		lines = append(lines, line)
		if strings.HasPrefix(line, "data:") {
			break
		}
	}
	require.NotEmpty(t, lines)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "event:greeting")
	assert.Contains(t, joined, `id="hello"`)
	assert.Contains(t, joined, "hi &lt;there&gt;")

	cancel()
	select {
	case <-stopCh:
	case <-time.After(2 * time.Second):
		t.Fatal("stream producers were not stopped after the client left")
	}
	assert.True(t, stopped.Load())
}

func TestServe_StartFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/stream", nil)

	Serve(c, zap.NewNop(), "test", func(ctx context.Context, emit *Emitter) (func(), error) {
		return nil, errors.New("boom")
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
