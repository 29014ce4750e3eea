package listing

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

type fakeTimer struct {
	s       *fakeScheduler
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

// fakeScheduler only runs timers when the test fires them.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, d: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

func (s *fakeScheduler) fireAll() {
	timers := s.pending()
	s.mu.Lock()
	for _, t := range timers {
		t.fired = true
	}
	s.mu.Unlock()
	for _, t := range timers {
		t.fn()
	}
}

type fetchReply struct {
	items []domain.Resident
	err   error
}

type fetchCall struct {
	filter Filter
	ctx    context.Context
	reply  chan fetchReply
}

// fakeFetcher blocks every fetch until the test replies to it.
type fakeFetcher struct {
	ignoreCancel bool
	started      chan fetchCall

	mu    sync.Mutex
	count int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{started: make(chan fetchCall, 32)}
}

func (f *fakeFetcher) fetch(ctx context.Context, filter Filter) ([]domain.Resident, error) {
	call := fetchCall{filter: filter, ctx: ctx, reply: make(chan fetchReply, 1)}
	f.mu.Lock()
	f.count++
	f.mu.Unlock()
	f.started <- call

	if f.ignoreCancel {
		r := <-call.reply
		return r.items, r.err
	}
	select {
	case r := <-call.reply:
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func (f *fakeFetcher) next(t *testing.T) fetchCall {
	t.Helper()
	select {
	case c := <-f.started:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no fetch started")
		return fetchCall{}
	}
}

func (f *fakeFetcher) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.started:
		t.Fatalf("unexpected fetch for %+v", c.filter)
	case <-time.After(50 * time.Millisecond):
	}
}

func residents(names ...string) []domain.Resident {
	out := make([]domain.Resident, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Resident{ID: n, FullName: n, AccountStatus: domain.ResidentPending})
	}
	return out
}

func awaitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestController(ff *fakeFetcher, sched *fakeScheduler, opts Options[domain.Resident]) *Controller[domain.Resident] {
	opts.Name = "residents"
	opts.Debounce = 500 * time.Millisecond
	opts.Scheduler = sched
	return NewController(ff.fetch, Filter{Tab: TabAll}, opts)
}

func TestNotifyDebouncesToSingleRequest(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	c.Notify(Filter{Tab: TabAll, Search: "a"})
	c.Notify(Filter{Tab: TabAll, Search: "ay"})
	ticket := c.Notify(Filter{Tab: TabAll, Search: "aye"})

	pending := sched.pending()
	require.Len(t, pending, 1, "each change replaces the previous timer")
	assert.Equal(t, 500*time.Millisecond, pending[0].d)
	assert.True(t, c.Snapshot().Loading)
	assert.Equal(t, 0, ff.calls(), "nothing is fetched before the quiet interval")

	sched.fireAll()
	call := ff.next(t)
	assert.Equal(t, "aye", call.filter.Search)
	call.reply <- fetchReply{items: residents("Ayesha")}

	snap, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
	assert.False(t, snap.Loading)
	assert.Equal(t, 1, ff.calls())
	ff.assertIdle(t)
}

func TestSupersededResultIsIgnored(t *testing.T) {
	ff := newFakeFetcher()
	ff.ignoreCancel = true
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	first := c.Load(Filter{Tab: "pending"})
	slow := ff.next(t)
	second := c.Load(Filter{Tab: "approved"})
	fast := ff.next(t)

	select {
	case <-slow.ctx.Done():
	default:
		t.Fatal("superseded request was not cancelled")
	}

	fast.reply <- fetchReply{items: residents("approved-1", "approved-2")}
	snap, err := c.Await(awaitCtx(t), second)
	require.NoError(t, err)
	require.Len(t, snap.Items, 2)

	_, err = c.Await(awaitCtx(t), first)
	assert.ErrorIs(t, err, domain.ErrSuperseded)

	// The slow response arrives after the newer one and must not win.
	slow.reply <- fetchReply{items: residents("pending-1")}
	require.Eventually(t, func() bool { return ff.calls() == 2 }, time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	snap = c.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "approved-1", snap.Items[0].ID)
	assert.Equal(t, "approved", snap.Filter.Tab)
}

func TestSupersededErrorIsIgnored(t *testing.T) {
	ff := newFakeFetcher()
	ff.ignoreCancel = true
	sched := &fakeScheduler{}
	notified := 0
	c := newTestController(ff, sched, Options[domain.Resident]{OnError: func(error) { notified++ }})
	defer c.Close()

	c.Load(Filter{Tab: "pending"})
	slow := ff.next(t)
	second := c.Load(Filter{Tab: "approved"})
	fast := ff.next(t)

	fast.reply <- fetchReply{items: residents("a")}
	_, err := c.Await(awaitCtx(t), second)
	require.NoError(t, err)

	slow.reply <- fetchReply{err: errors.New("boom")}
	time.Sleep(50 * time.Millisecond)

	snap := c.Snapshot()
	assert.NoError(t, snap.Err)
	assert.Equal(t, 0, notified)
}

func TestFailureKeepsPreviousItems(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	var mu sync.Mutex
	var notified []error
	c := newTestController(ff, sched, Options[domain.Resident]{OnError: func(err error) {
		mu.Lock()
		notified = append(notified, err)
		mu.Unlock()
	}})
	defer c.Close()

	ticket := c.Load(Filter{Tab: TabAll})
	ff.next(t).reply <- fetchReply{items: residents("a", "b")}
	_, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)

	ticket = c.Refresh()
	ff.next(t).reply <- fetchReply{err: &domain.APIError{StatusCode: 500}}
	snap, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)

	assert.Len(t, snap.Items, 2, "previous items survive a failed fetch")
	assert.False(t, snap.Loading)
	assert.Error(t, snap.Err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(notified) == 1
	}, time.Second, 10*time.Millisecond)
	ff.assertIdle(t)
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, notified, 1)
}

func TestLoadReusesPendingFetch(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	f := Filter{Tab: "pending", Search: "khan"}
	first := c.Load(f)
	call := ff.next(t)

	again := c.Load(Filter{Tab: "pending", Search: "khan"})
	assert.Equal(t, first, again)

	call.reply <- fetchReply{items: residents("x")}
	_, err := c.Await(awaitCtx(t), again)
	require.NoError(t, err)

	ff.assertIdle(t)
	assert.Equal(t, 1, ff.calls())
}

func TestLoadRefetchesSettledFilter(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	f := Filter{Tab: "pending"}
	first := c.Load(f)
	ff.next(t).reply <- fetchReply{items: residents("a", "b")}
	_, err := c.Await(awaitCtx(t), first)
	require.NoError(t, err)

	// Reloading the page asks upstream again.
	reload := c.Load(f)
	assert.Greater(t, reload, first)
	ff.next(t).reply <- fetchReply{items: residents("b")}
	snap, err := c.Await(awaitCtx(t), reload)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 2, ff.calls())
}

func TestLoadRetriesAfterFailure(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	f := Filter{Tab: TabAll}
	ticket := c.Load(f)
	ff.next(t).reply <- fetchReply{err: errors.New("offline")}
	_, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)

	retry := c.Load(f)
	assert.Greater(t, retry, ticket)
	ff.next(t).reply <- fetchReply{items: residents("a")}
	snap, err := c.Await(awaitCtx(t), retry)
	require.NoError(t, err)
	assert.NoError(t, snap.Err)
}

func TestLoadFiresPendingTimer(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	f := Filter{Tab: TabAll, Search: "42201"}
	ticket := c.Notify(f)
	assert.Equal(t, ticket, c.Load(f))

	call := ff.next(t)
	assert.Equal(t, "42201", call.filter.Search)
	call.reply <- fetchReply{items: residents("a")}

	_, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)

	sched.fireAll()
	ff.assertIdle(t)
}

func TestRefreshAfterMutationFetchesOnce(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	f := Filter{Tab: "pending"}
	ticket := c.Load(f)
	ff.next(t).reply <- fetchReply{items: residents("a", "b")}
	_, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)

	// A mutation refreshes, then the redirected page loads the same filter.
	refreshed := c.Refresh()
	assert.Equal(t, refreshed, c.Load(f))
	ff.next(t).reply <- fetchReply{items: residents("b")}
	snap, err := c.Await(awaitCtx(t), refreshed)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)

	ff.assertIdle(t)
	assert.Equal(t, 2, ff.calls())

	// The refreshed result is adopted once; later loads fetch again.
	next := c.Load(f)
	assert.Greater(t, next, refreshed)
	ff.next(t).reply <- fetchReply{items: residents("b")}
	_, err = c.Await(awaitCtx(t), next)
	require.NoError(t, err)
	assert.Equal(t, 3, ff.calls())
}

func TestLoadAdoptsSettledRefresh(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	f := Filter{Tab: TabAll}
	refreshed := c.Refresh()
	ff.next(t).reply <- fetchReply{items: residents("a")}
	_, err := c.Await(awaitCtx(t), refreshed)
	require.NoError(t, err)

	assert.Equal(t, refreshed, c.Load(f))
	ff.assertIdle(t)
	assert.Equal(t, 1, ff.calls())
}

func reverseByName(f Filter, items []domain.Resident) []domain.Resident {
	out := slices.Clone(items)
	if f.Param("sort") == "desc" {
		slices.Reverse(out)
	}
	return out
}

func TestSortOnlyChangeReusesFetchedItems(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{Prepare: reverseByName})
	defer c.Close()

	f := Filter{Tab: TabAll, Params: map[string]string{"month": "3"}}
	ticket := c.Load(f)
	ff.next(t).reply <- fetchReply{items: residents("a", "b", "c")}
	_, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)

	sorted := Filter{Tab: TabAll, Params: map[string]string{"month": "3", "sort": "desc"}}
	assert.Equal(t, ticket, c.Notify(sorted))
	assert.Empty(t, sched.pending(), "no fetch is scheduled for a sort change")

	snap, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)
	assert.False(t, snap.Loading)
	assert.Equal(t, "desc", snap.Filter.Param("sort"))
	assert.Equal(t, []string{"c", "b", "a"}, []string{snap.Items[0].ID, snap.Items[1].ID, snap.Items[2].ID})

	// Changing a fetched param still goes upstream.
	c.Notify(Filter{Tab: TabAll, Params: map[string]string{"month": "4", "sort": "desc"}})
	require.Len(t, sched.pending(), 1)
	ff.assertIdle(t)
	assert.Equal(t, 1, ff.calls())
}

func TestPrepareHookRunsOnApply(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{Prepare: RecordPrepare[domain.Resident]})
	defer c.Close()

	ticket := c.Load(Filter{Tab: TabAll, Search: "4220"})
	ff.next(t).reply <- fetchReply{items: []domain.Resident{
		{ID: "1", FullName: "Ayesha", CNIC: "42201-1111111-1"},
		{ID: "2", FullName: "Bilal", CNIC: "35202-2222222-2"},
	}}
	snap, err := c.Await(awaitCtx(t), ticket)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "1", snap.Items[0].ID)
}

func TestCloseWakesWaiters(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})

	ticket := c.Notify(Filter{Tab: TabAll, Search: "x"})

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Await(context.Background(), ticket)
		errCh <- err
	}()

	c.Close()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, domain.ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not woken")
	}

	assert.Empty(t, sched.pending(), "close stops the debounce timer")
	sched.fireAll()
	ff.assertIdle(t)
}

func TestAwaitHonoursContext(t *testing.T) {
	ff := newFakeFetcher()
	sched := &fakeScheduler{}
	c := newTestController(ff, sched, Options[domain.Resident]{})
	defer c.Close()

	ticket := c.Notify(Filter{Tab: TabAll})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Await(ctx, ticket)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
