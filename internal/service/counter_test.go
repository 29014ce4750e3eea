package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterToleratesFailedSource(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	api.on(http.MethodGet, "/admin/users", http.StatusOK, []map[string]any{
		{"_id": "u1", "accountStatus": "pending"},
		{"_id": "u2", "accountStatus": "pending"},
		{"_id": "u3", "accountStatus": "approved"},
	}, "")
	api.on(http.MethodGet, "/admin/complaints", http.StatusInternalServerError, nil, "boom")
	api.on(http.MethodGet, "/admin/payments", http.StatusOK, []map[string]any{
		{"_id": "p1", "status": "submitted", "amount": 5000},
	}, "")
	api.on(http.MethodGet, "/admin/vehicles/change-requests/all", http.StatusOK, []any{}, "")
	api.on(http.MethodGet, "/admin/digital-cards/stats/overview", http.StatusOK,
		map[string]int{"total": 4, "pending": 1, "approved": 3}, "")
	api.on(http.MethodGet, "/admin/guest-requests/stats", http.StatusBadGateway, nil, "")

	c := NewCounter(client, time.Minute, nil)
	badges := c.Poll(context.Background())

	assert.Equal(t, 3, badges.Users.Total)
	assert.Equal(t, 2, badges.Users.Count("pending"))
	assert.Equal(t, 1, badges.Users.Count("approved"))

	assert.Zero(t, badges.Complaints.Total)
	for _, status := range []string{"pending", "in_progress", "resolved", "rejected"} {
		assert.Zero(t, badges.Complaints.Count(status))
	}
	assert.NotNil(t, badges.Complaints.ByStatus)

	assert.Equal(t, 1, badges.Payments.Count("submitted"))
	assert.Zero(t, badges.VehicleRequests.Total)
	assert.Equal(t, 1, badges.Cards.Pending)
	assert.Zero(t, badges.Guests.Pending)

	assert.Equal(t, badges, c.Counts())
	assert.False(t, c.PolledAt().IsZero())
}

func TestCounterSendsStatusAll(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	c := NewCounter(client, time.Minute, nil)
	c.Poll(context.Background())

	assert.Len(t, api.calls(), 6)
	for _, path := range []string{"/admin/users", "/admin/complaints", "/admin/payments", "/admin/vehicles/change-requests/all"} {
		assert.Equal(t, "status=all", api.query(http.MethodGet, path), path)
	}
}

func TestCounterZeroBeforeFirstPoll(t *testing.T) {
	_, client, _ := newFakeAPI(t)
	c := NewCounter(client, time.Minute, nil)

	badges := c.Counts()
	assert.Zero(t, badges.Users.Count("pending"))
	assert.NotNil(t, badges.Payments.ByStatus)
	assert.True(t, c.PolledAt().IsZero())
}

func TestCounterStartStop(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	api.on(http.MethodGet, "/admin/users", http.StatusOK, []map[string]any{{"_id": "u1", "accountStatus": "pending"}}, "")

	c := NewCounter(client, time.Hour, nil)
	c.Start()
	c.Start()
	require.Eventually(t, func() bool { return !c.PolledAt().IsZero() }, 2*time.Second, 10*time.Millisecond)
	c.Stop()
	c.Stop()

	assert.Equal(t, 1, c.Counts().Users.Count("pending"))
	assert.Len(t, api.calls(), 6)
}

func TestCounterCancelledPollKeepsCounts(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	api.on(http.MethodGet, "/admin/users", http.StatusOK, []map[string]any{{"_id": "u1", "accountStatus": "approved"}}, "")
	c := NewCounter(client, time.Minute, nil)
	c.Poll(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	badges := c.Poll(ctx)
	assert.Equal(t, 1, badges.Users.Count("approved"))
}

func TestDashboard(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	api.on(http.MethodGet, "/admin/users/stats", http.StatusOK, map[string]int{"totalUsers": 40, "pendingUsers": 3}, "")
	api.on(http.MethodGet, "/admin/complaints/stats", http.StatusInternalServerError, nil, "")
	api.on(http.MethodGet, "/admin/payments/stats/overview", http.StatusOK,
		map[string]any{"overview": map[string]int{"pending": 7}, "amounts": map[string]any{"totalCollected": "125000.50"}}, "")

	stats := Dashboard(context.Background(), client, discardLogger())
	assert.Equal(t, 40, stats.TotalUsers())
	assert.Equal(t, 3, stats.PendingApprovals())
	assert.Zero(t, stats.PendingComplaints())
	assert.Equal(t, 7, stats.PendingPayments())
	assert.Equal(t, "125000.5", stats.Payments.Amounts.TotalCollected.String())
}
