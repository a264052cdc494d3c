// Package poll implements poll-driven views: a view fetches a snapshot
// immediately on Mount and then once per period, replacing what it shows
// with the latest successful result.
//
// Each tick cancels the fetch still running from the previous tick and
// starts a new one, so a slow backend never builds a queue. A response that
// arrives after it was superseded is discarded. A failed fetch is logged and
// the previous snapshot stays on display.
package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/observability/metrics"
)

type State int

const (
	Idle State = iota
	Polling
)

func (s State) String() string {
	if s == Polling {
		return "polling"
	}
	return "idle"
}

// FetchFunc loads one snapshot. It must honour ctx cancellation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Cycle describes one finished fetch.
type Cycle struct {
	View       string
	Duration   time.Duration
	Err        error
	Superseded bool
}

// Observer is told about every finished cycle.
type Observer func(ctx context.Context, c Cycle)

type Option[T any] func(*View[T])

// WithPeriod sets the refresh interval. Defaults to one second.
func WithPeriod[T any](d time.Duration) Option[T] {
	return func(v *View[T]) { v.period = d }
}

// WithTransform post-processes each successful result before it is stored.
func WithTransform[T any](fn func(T) T) Option[T] {
	return func(v *View[T]) { v.transform = fn }
}

// WithOnUpdate registers a callback invoked with every accepted snapshot, in
// order. ctx is cancelled when the view is stopped; the callback must return
// once it is.
func WithOnUpdate[T any](fn func(ctx context.Context, snapshot T)) Option[T] {
	return func(v *View[T]) { v.onUpdate = fn }
}

func WithClock[T any](c Clock) Option[T] {
	return func(v *View[T]) { v.clock = c }
}

func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(v *View[T]) { v.logger = l }
}

func WithObserver[T any](o Observer) Option[T] {
	return func(v *View[T]) { v.observer = o }
}

// View is a poll-driven view over one resource.
type View[T any] struct {
	name      string
	id        string
	fetch     FetchFunc[T]
	period    time.Duration
	transform func(T) T
	onUpdate  func(context.Context, T)
	clock     Clock
	logger    *zap.Logger
	observer  Observer

	mu          sync.Mutex
	state       State
	gen         uint64
	data        T
	hasData     bool
	lastErr     error
	lastUpdated time.Time

	// deliverMu orders onUpdate calls; delivered is the newest generation
	// handed to the callback.
	deliverMu sync.Mutex
	delivered uint64
}

func NewView[T any](name string, fetch FetchFunc[T], opts ...Option[T]) *View[T] {
	v := &View[T]{
		name:   name,
		id:     uuid.NewString(),
		fetch:  fetch,
		period: time.Second,
		clock:  RealClock(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.With(zap.String("view", name), zap.String("view_id", v.id))
	return v
}

// Handle owns a mounted view. Stop is the only way to release it.
type Handle struct {
	stopOnce sync.Once
	stopCh   chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	finish   func()
}

// Stop halts the timer, cancels the in-flight fetch and returns once no
// fetch or callback of this mount can run any more. It is safe to call more
// than once, but not from inside the view's own update callback.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		h.cancel()
		h.wg.Wait()
		h.finish()
	})
}

// Mount starts polling. It fails with models.ErrAlreadyPolling when the view
// is already mounted. Values of ctx reach every fetch; cancelling ctx
// cancels fetches but does not unmount the view.
func (v *View[T]) Mount(ctx context.Context) (*Handle, error) {
	if v.period <= 0 {
		return nil, fmt.Errorf("view %s: period must be positive, got %s", v.name, v.period)
	}

	v.mu.Lock()
	if v.state == Polling {
		v.mu.Unlock()
		return nil, fmt.Errorf("view %s: %w", v.name, models.ErrAlreadyPolling)
	}
	v.state = Polling
	v.mu.Unlock()

	mountCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		stopCh: make(chan struct{}),
		cancel: cancel,
	}
	h.finish = func() {
		v.mu.Lock()
		v.state = Idle
		v.gen++
		v.mu.Unlock()
		metrics.Get().ActiveViews.Add(context.WithoutCancel(ctx), -1)
		v.logger.Debug("view stopped")
	}

	ticker := v.clock.NewTicker(v.period)
	metrics.Get().ActiveViews.Add(ctx, 1)
	v.logger.Debug("view mounted", zap.Duration("period", v.period))

	h.wg.Add(1)
	go v.loop(mountCtx, h, ticker)
	return h, nil
}

func (v *View[T]) loop(ctx context.Context, h *Handle, ticker Ticker) {
	defer h.wg.Done()
	defer ticker.Stop()

	var cancelPrev context.CancelFunc
	start := func() {
		if cancelPrev != nil {
			cancelPrev()
		}
		cycleCtx, cancel := context.WithCancel(ctx)
		cancelPrev = cancel

		v.mu.Lock()
		v.gen++
		gen := v.gen
		v.mu.Unlock()

		h.wg.Add(1)
		go v.cycle(ctx, cycleCtx, cancel, h, gen)
	}

	start()
	for {
		select {
		case <-h.stopCh:
			cancelPrev()
			return
		case <-ticker.C():
			start()
		}
	}
}

func (v *View[T]) cycle(mountCtx, ctx context.Context, cancel context.CancelFunc, h *Handle, gen uint64) {
	defer h.wg.Done()
	defer cancel()

	began := v.clock.Now()
	result, err := v.fetch(ctx)
	c := Cycle{View: v.name, Duration: v.clock.Now().Sub(began), Err: err}

	if err == nil && v.transform != nil {
		result = v.transform(result)
	}

	v.mu.Lock()
	if gen != v.gen || ctx.Err() != nil {
		v.mu.Unlock()
		c.Superseded = true
		v.observe(mountCtx, c)
		return
	}
	if err != nil {
		v.lastErr = err
		v.mu.Unlock()
		v.logger.Warn("poll fetch failed, keeping previous snapshot", zap.Error(err))
		v.observe(mountCtx, c)
		return
	}
	v.data = result
	v.hasData = true
	v.lastErr = nil
	v.lastUpdated = v.clock.Now()
	v.mu.Unlock()

	v.observe(mountCtx, c)
	v.deliver(mountCtx, gen, result)
}

func (v *View[T]) deliver(ctx context.Context, gen uint64, snapshot T) {
	if v.onUpdate == nil {
		return
	}
	v.deliverMu.Lock()
	defer v.deliverMu.Unlock()
	if gen <= v.delivered || ctx.Err() != nil {
		return
	}
	v.delivered = gen
	v.onUpdate(ctx, snapshot)
}

func (v *View[T]) observe(ctx context.Context, c Cycle) {
	if v.observer != nil {
		v.observer(context.WithoutCancel(ctx), c)
	}
}

// Snapshot returns the latest accepted result and whether there is one.
func (v *View[T]) Snapshot() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.data, v.hasData
}

func (v *View[T]) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// LastError is the error of the most recent non-superseded cycle, or nil if
// it succeeded.
func (v *View[T]) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

func (v *View[T]) LastUpdated() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastUpdated
}

func (v *View[T]) Name() string { return v.name }
