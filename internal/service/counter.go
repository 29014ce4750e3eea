package service

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/metrics"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
)

// DefaultPollInterval is how often the sidebar counts are refreshed.
const DefaultPollInterval = 2 * time.Minute

// Counter keeps the sidebar badge counts. Each poll queries every source in
// parallel; a failing source contributes zeros and never fails the poll.
type Counter struct {
	client   *societyapi.Client
	interval time.Duration
	log      logrus.FieldLogger
	now      func() time.Time

	mu     sync.RWMutex
	badges domain.Badges
	polled time.Time

	runMu sync.Mutex
	stop  context.CancelFunc
	done  chan struct{}
}

// NewCounter creates a counter. Nothing is polled until Start or Poll.
func NewCounter(client *societyapi.Client, interval time.Duration, log logrus.FieldLogger) *Counter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Counter{
		client:   client,
		interval: interval,
		log:      log.WithField("component", "sidebar"),
		now:      time.Now,
		badges:   emptyBadges(),
	}
}

// Counts returns the latest badges. Before the first poll every count is zero.
func (c *Counter) Counts() domain.Badges {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.badges
}

// PolledAt is when the last poll finished, zero if none has.
func (c *Counter) PolledAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.polled
}

// Start polls immediately and then every interval until Stop. Calling Start
// on a running counter does nothing.
func (c *Counter) Start() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.stop != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.stop = cancel
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		c.run(ctx)
	}()
}

// Stop cancels the loop and any poll in flight, and waits for it to exit.
func (c *Counter) Stop() {
	c.runMu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.runMu.Unlock()
	if stop == nil {
		return
	}
	stop()
	<-done
}

func (c *Counter) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.Poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll refreshes every count once and returns the result. A poll cancelled
// through ctx leaves the previous counts in place.
func (c *Counter) Poll(ctx context.Context) domain.Badges {
	now := c.now()
	all := url.Values{"status": {"all"}}
	next := emptyBadges()

	var g errgroup.Group
	g.Go(func() error {
		if users, ok := tolerate(ctx, c, domain.ResourceResidents, func(ctx context.Context) ([]domain.Resident, error) {
			return c.client.ListResidents(ctx, all)
		}); ok {
			next.Users = domain.CountStatuses(users, now)
		}
		return nil
	})
	g.Go(func() error {
		if complaints, ok := tolerate(ctx, c, domain.ResourceComplaints, func(ctx context.Context) ([]domain.Complaint, error) {
			return c.client.ListComplaints(ctx, all)
		}); ok {
			next.Complaints = domain.CountStatuses(complaints, now)
		}
		return nil
	})
	g.Go(func() error {
		if payments, ok := tolerate(ctx, c, domain.ResourcePayments, func(ctx context.Context) ([]domain.Payment, error) {
			return c.client.ListPayments(ctx, all)
		}); ok {
			next.Payments = domain.CountStatuses(payments, now)
		}
		return nil
	})
	g.Go(func() error {
		if requests, ok := tolerate(ctx, c, domain.ResourceVehicleRequests, func(ctx context.Context) ([]domain.VehicleRequest, error) {
			return c.client.ListVehicleRequests(ctx, all)
		}); ok {
			next.VehicleRequests = domain.CountStatuses(requests, now)
		}
		return nil
	})
	g.Go(func() error {
		if stats, ok := tolerate(ctx, c, domain.ResourceDigitalCards, c.client.CardStats); ok && stats != nil {
			next.Cards = *stats
		}
		return nil
	})
	g.Go(func() error {
		if stats, ok := tolerate(ctx, c, domain.ResourceGuestRequests, c.client.GuestStats); ok && stats != nil {
			next.Guests = *stats
		}
		return nil
	})
	_ = g.Wait()

	if ctx.Err() != nil {
		return c.Counts()
	}

	c.mu.Lock()
	c.badges = next
	c.polled = c.now()
	c.mu.Unlock()
	return next
}

// tolerate runs one source of a poll. Failures are logged and counted, and
// reported as !ok so the caller keeps the zero value.
func tolerate[T any](ctx context.Context, c *Counter, r domain.Resource, fetch func(context.Context) (T, error)) (T, bool) {
	v, err := fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.log.WithError(err).WithField("resource", r).Warn("sidebar count failed")
			metrics.ObserveSidebarFailure(string(r))
		}
		var zero T
		return zero, false
	}
	return v, true
}

func emptyBadges() domain.Badges {
	empty := func() domain.StatusCounts { return domain.StatusCounts{ByStatus: map[string]int{}} }
	return domain.Badges{
		Users:           empty(),
		Complaints:      empty(),
		Payments:        empty(),
		VehicleRequests: empty(),
	}
}
