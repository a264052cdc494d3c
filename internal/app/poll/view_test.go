package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

const (
	period  = time.Second
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// counter is a fetch that returns its call number.
type counter struct {
	calls atomic.Int32
}

func (c *counter) fetch(ctx context.Context) (int, error) {
	return int(c.calls.Add(1)), nil
}

func TestView_FetchesImmediatelyThenEveryPeriod(t *testing.T) {
	clk := newFakeClock()
	src := &counter{}
	v := NewView("test", src.fetch, WithPeriod[int](period), WithClock[int](clk))

	h, err := v.Mount(context.Background())
	require.NoError(t, err)
	defer h.Stop()

	assert.Equal(t, Polling, v.State())
	assert.Eventually(t, func() bool { return src.calls.Load() == 1 }, waitFor, tick)
	assert.Eventually(t, func() bool { n, ok := v.Snapshot(); return ok && n == 1 }, waitFor, tick)

	for want := int32(2); want <= 4; want++ {
		clk.Advance(period)
		assert.Eventually(t, func() bool { return src.calls.Load() == want }, waitFor, tick)
	}
	assert.Eventually(t, func() bool { n, _ := v.Snapshot(); return n == 4 }, waitFor, tick)
}

func TestView_StopHaltsFetches(t *testing.T) {
	clk := newFakeClock()
	src := &counter{}
	v := NewView("test", src.fetch, WithPeriod[int](period), WithClock[int](clk))

	h, err := v.Mount(context.Background())
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return src.calls.Load() == 1 }, waitFor, tick)

	h.Stop()
	assert.Equal(t, Idle, v.State())
	assert.Equal(t, 0, clk.Active(), "ticker released")

	for i := 0; i < 5; i++ {
		clk.Advance(period)
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), src.calls.Load())

	assert.NotPanics(t, h.Stop, "Stop is idempotent")
}

func TestView_MountTwiceFails(t *testing.T) {
	v := NewView("test", (&counter{}).fetch, WithClock[int](newFakeClock()))

	h, err := v.Mount(context.Background())
	require.NoError(t, err)

	_, err = v.Mount(context.Background())
	assert.ErrorIs(t, err, models.ErrAlreadyPolling)

	h.Stop()
	h2, err := v.Mount(context.Background())
	require.NoError(t, err, "a stopped view can be mounted again")
	h2.Stop()
}

func TestView_FailureKeepsPreviousSnapshot(t *testing.T) {
	clk := newFakeClock()
	boom := errors.New("backend down")
	var calls atomic.Int32
	fetch := func(ctx context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			return []string{"a", "b"}, nil
		}
		return nil, boom
	}
	v := NewView("test", fetch, WithClock[[]string](clk))

	h, err := v.Mount(context.Background())
	require.NoError(t, err)
	defer h.Stop()
	assert.Eventually(t, func() bool { _, ok := v.Snapshot(); return ok }, waitFor, tick)

	clk.Advance(period)
	assert.Eventually(t, func() bool { return errors.Is(v.LastError(), boom) }, waitFor, tick)

	got, ok := v.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestView_TickCancelsInFlightFetch(t *testing.T) {
	clk := newFakeClock()
	firstCancelled := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			close(firstCancelled)
			// A late answer must not replace the fresh one.
			return "stale", nil
		}
		return "fresh", nil
	}

	var mu sync.Mutex
	var delivered []string
	v := NewView("test", fetch,
		WithClock[string](clk),
		WithOnUpdate(func(ctx context.Context, s string) {
			mu.Lock()
			delivered = append(delivered, s)
			mu.Unlock()
		}),
	)

	h, err := v.Mount(context.Background())
	require.NoError(t, err)
	defer h.Stop()
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, tick)

	clk.Advance(period)

	select {
	case <-firstCancelled:
	case <-time.After(waitFor):
		t.Fatal("in-flight fetch was not cancelled by the next tick")
	}
	assert.Eventually(t, func() bool { s, _ := v.Snapshot(); return s == "fresh" }, waitFor, tick)
	time.Sleep(20 * time.Millisecond)

	s, _ := v.Snapshot()
	assert.Equal(t, "fresh", s)
	mu.Lock()
	assert.Equal(t, []string{"fresh"}, delivered)
	mu.Unlock()
}

func TestView_StopCancelsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	}
	v := NewView("test", fetch, WithClock[int](newFakeClock()))

	h, err := v.Mount(context.Background())
	require.NoError(t, err)
	<-started

	stopped := make(chan struct{})
	go func() {
		h.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(waitFor):
		t.Fatal("Stop did not cancel the in-flight fetch")
	}
	_, ok := v.Snapshot()
	assert.False(t, ok)
}

func TestView_StopUnblocksUpdateCallback(t *testing.T) {
	entered := make(chan struct{})
	v := NewView("test", (&counter{}).fetch,
		WithClock[int](newFakeClock()),
		WithOnUpdate(func(ctx context.Context, n int) {
			close(entered)
			// A consumer that stopped reading.
			<-ctx.Done()
		}),
	)

	h, err := v.Mount(context.Background())
	require.NoError(t, err)
	<-entered

	stopped := make(chan struct{})
	go func() {
		h.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(waitFor):
		t.Fatal("Stop blocked on the update callback")
	}
}

func TestView_TransformAndObserver(t *testing.T) {
	var mu sync.Mutex
	var cycles []Cycle
	v := NewView("dashboard",
		func(ctx context.Context) ([]int, error) { return []int{1, 2, 3, 4, 5}, nil },
		WithClock[[]int](newFakeClock()),
		WithTransform(func(in []int) []int { return in[:2] }),
		WithObserver[[]int](func(ctx context.Context, c Cycle) {
			mu.Lock()
			cycles = append(cycles, c)
			mu.Unlock()
		}),
	)

	h, err := v.Mount(context.Background())
	require.NoError(t, err)
	defer h.Stop()

	assert.Eventually(t, func() bool { s, ok := v.Snapshot(); return ok && len(s) == 2 }, waitFor, tick)
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, cycles)
	assert.Equal(t, "dashboard", cycles[0].View)
	assert.NoError(t, cycles[0].Err)
	assert.False(t, cycles[0].Superseded)
}

func TestView_RejectsNonPositivePeriod(t *testing.T) {
	v := NewView("test", (&counter{}).fetch, WithPeriod[int](0))
	_, err := v.Mount(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Idle, v.State())
}

func TestRecordMetrics_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordMetrics(context.Background(), Cycle{View: "alerts", Duration: time.Millisecond})
		RecordMetrics(context.Background(), Cycle{View: "alerts", Err: errors.New("x")})
		RecordMetrics(context.Background(), Cycle{View: "alerts", Superseded: true})
	})
}
