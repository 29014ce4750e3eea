package listing

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/metrics"
)

// FetchFunc loads one page of records for a filter.
type FetchFunc[T any] func(ctx context.Context, f Filter) ([]T, error)

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn after d. The default uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer { return time.AfterFunc(d, fn) }

// Options configures a Controller.
type Options[T any] struct {
	// Name labels logs and metrics, usually the resource.
	Name     string
	Debounce time.Duration
	// Prepare post-processes a successful result before it is applied.
	Prepare func(f Filter, items []T) []T
	// OnError is called once for each failed fetch that was not superseded.
	OnError   func(err error)
	Scheduler Scheduler
	Logger    logrus.FieldLogger
}

// Snapshot is a consistent view of a controller's state.
type Snapshot[T any] struct {
	Items []T
	// Filter is the filter Items were fetched for.
	Filter Filter
	// Requested is the most recent filter asked for.
	Requested  Filter
	Loading    bool
	Err        error
	Generation uint64
	Latest     uint64
}

// Controller turns a stream of filter changes into fetches. Only the most
// recent generation's result is ever applied; older results, successful or
// not, are dropped. Notify debounces, Load and Refresh fetch immediately.
type Controller[T any] struct {
	fetch FetchFunc[T]
	opts  Options[T]
	log   logrus.FieldLogger

	ctx  context.Context
	stop context.CancelFunc

	mu            sync.Mutex
	latest        Filter
	gen           uint64
	settled       uint64
	timer         Timer
	timerPending  bool
	cancel        context.CancelFunc
	// handoff is the generation started by Refresh that the next Load of the
	// same filter may adopt instead of fetching again.
	handoff       uint64
	raw           []T
	items         []T
	appliedFilter Filter
	err           error
	closed        bool
	changed       chan struct{}
}

// NewController creates a controller showing initial. Nothing is fetched
// until Notify, Load or Refresh is called.
func NewController[T any](fetch FetchFunc[T], initial Filter, opts Options[T]) *Controller[T] {
	if opts.Scheduler == nil {
		opts.Scheduler = realScheduler{}
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Controller[T]{
		fetch:         fetch,
		opts:          opts,
		log:           log.WithField("list", opts.Name),
		ctx:           ctx,
		stop:          stop,
		latest:        initial,
		appliedFilter: initial,
		changed:       make(chan struct{}),
	}
}

// Notify records f as the latest filter and schedules a fetch once no other
// change has arrived for the debounce interval. Any unfired timer and any
// in-flight request are cancelled. The returned ticket identifies the fetch.
func (c *Controller[T]) Notify(f Filter) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.gen
	}
	if c.resortLocked(f) {
		return c.gen
	}

	g := c.supersedeLocked(f)
	c.timerPending = true
	c.timer = c.opts.Scheduler.AfterFunc(c.opts.Debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || g != c.gen || !c.timerPending {
			return
		}
		c.timerPending = false
		c.startLocked(g)
	})
	c.broadcastLocked()
	return g
}

// Load fetches f immediately. When f is already the current filter and its
// fetch is still pending, the current ticket is returned instead. A settled
// result is reused only once, by the first Load after a successful Refresh.
func (c *Controller[T]) Load(f Filter) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.gen
	}

	if c.gen > 0 && f.Equal(c.latest) {
		adopt := c.handoff == c.gen
		c.handoff = 0
		if c.timerPending {
			c.timer.Stop()
			c.timerPending = false
			c.startLocked(c.gen)
			return c.gen
		}
		if c.settled < c.gen || (adopt && c.err == nil) {
			return c.gen
		}
	}

	g := c.supersedeLocked(f)
	c.startLocked(g)
	c.broadcastLocked()
	return g
}

// Refresh refetches the current filter immediately.
func (c *Controller[T]) Refresh() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.gen
	}

	g := c.supersedeLocked(c.latest)
	c.handoff = g
	c.startLocked(g)
	c.broadcastLocked()
	return g
}

// Await blocks until the fetch for ticket settles and returns the resulting
// snapshot. It returns domain.ErrSuperseded once a newer generation exists,
// domain.ErrClosed after Close, or ctx's error.
func (c *Controller[T]) Await(ctx context.Context, ticket uint64) (Snapshot[T], error) {
	for {
		c.mu.Lock()
		switch {
		case c.closed:
			c.mu.Unlock()
			return Snapshot[T]{}, domain.ErrClosed
		case c.gen > ticket:
			c.mu.Unlock()
			return Snapshot[T]{}, domain.ErrSuperseded
		case c.settled >= ticket:
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return Snapshot[T]{}, ctx.Err()
		case <-ch:
		}
	}
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops the timer, cancels in-flight work and wakes every waiter.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerPending = false
	c.stop()
	c.broadcastLocked()
}

// resortLocked applies a display-only change such as a new sort order to the
// records already fetched. It reports false when f needs a fetch.
func (c *Controller[T]) resortLocked(f Filter) bool {
	if c.gen == 0 || c.timerPending || c.settled < c.gen || c.err != nil ||
		!f.SameFetch(c.appliedFilter) || f.Equal(c.latest) {
		return false
	}
	c.latest = f.clone()
	c.appliedFilter = f.clone()
	c.items = c.prepare(f, c.raw)
	c.log.WithField("generation", c.gen).Debug("re-preparing list")
	c.broadcastLocked()
	return true
}

func (c *Controller[T]) prepare(f Filter, raw []T) []T {
	if c.opts.Prepare == nil {
		return raw
	}
	return c.opts.Prepare(f, raw)
}

func (c *Controller[T]) supersedeLocked(f Filter) uint64 {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerPending = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.latest = f.clone()
	return c.gen
}

func (c *Controller[T]) startLocked(g uint64) {
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	f := c.latest.clone()
	c.log.WithField("generation", g).Debug("fetching list")
	go c.run(ctx, cancel, g, f)
}

func (c *Controller[T]) run(ctx context.Context, cancel context.CancelFunc, g uint64, f Filter) {
	defer cancel()
	items, err := c.fetch(ctx, f)

	c.mu.Lock()
	if c.closed || g != c.gen {
		c.mu.Unlock()
		metrics.ObserveListFetch(c.opts.Name, metrics.FetchSuperseded)
		c.log.WithField("generation", g).Debug("dropping superseded result")
		return
	}
	c.cancel = nil
	c.settled = g

	if err != nil {
		c.err = err
		c.broadcastLocked()
		c.mu.Unlock()

		metrics.ObserveListFetch(c.opts.Name, metrics.FetchFailed)
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.WithError(err).WithField("generation", g).Warn("list fetch failed")
		if c.opts.OnError != nil {
			c.opts.OnError(err)
		}
		return
	}

	c.raw = items
	c.items = c.prepare(f, items)
	c.appliedFilter = f
	c.err = nil
	c.broadcastLocked()
	c.mu.Unlock()
	metrics.ObserveListFetch(c.opts.Name, metrics.FetchApplied)
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		Items:      items,
		Filter:     c.appliedFilter.clone(),
		Requested:  c.latest.clone(),
		Loading:    c.timerPending || c.settled < c.gen,
		Err:        c.err,
		Generation: c.settled,
		Latest:     c.gen,
	}
}

func (c *Controller[T]) broadcastLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}
