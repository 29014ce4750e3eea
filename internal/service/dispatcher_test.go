package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage/memory"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/validation"
)

func TestDispatchBlankReasonMakesNoRequest(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	journal := memory.New()
	d := NewDispatcher(client, journal, nil)

	for _, reason := range []string{"", "   "} {
		refreshed := 0
		out, err := d.Dispatch(context.Background(), Mutation{
			Resource: domain.ResourceResidents,
			Action:   domain.ActionReject,
			ID:       "u1",
			Reason:   reason,
		}, func() { refreshed++ })

		require.ErrorIs(t, err, domain.ErrReasonRequired)
		assert.False(t, out.Succeeded)
		assert.Equal(t, "Please provide a reason", out.Message)
		assert.Zero(t, refreshed)
	}
	assert.Empty(t, api.calls())

	entries, err := journal.ListActions(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.OutcomeRejected, entries[0].Outcome)
}

func TestDispatchDeleteNeedsConfirmation(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	api.on(http.MethodDelete, "/admin/digital-cards/c1", http.StatusOK, nil, "")
	d := NewDispatcher(client, nil, nil)

	m := Mutation{Resource: domain.ResourceDigitalCards, Action: domain.ActionDelete, ID: "c1"}
	_, err := d.Dispatch(context.Background(), m, nil)
	require.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Empty(t, api.calls())

	m.Confirmed = true
	out, err := d.Dispatch(context.Background(), m, nil)
	require.NoError(t, err)
	assert.True(t, out.Succeeded)
	assert.Equal(t, "Digital card deleted successfully", out.Message)
	assert.Equal(t, []string{"DELETE /api/admin/digital-cards/c1"}, api.calls())
}

func TestDispatchSuccessRefreshesOnce(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	api.on(http.MethodPut, "/admin/payments/p1/reject", http.StatusOK, nil, "")
	journal := memory.New()
	d := NewDispatcher(client, journal, nil)

	refreshed := 0
	out, err := d.Dispatch(context.Background(), Mutation{
		Resource: domain.ResourcePayments,
		Action:   domain.ActionReject,
		ID:       "p1",
		Reason:   "Receipt unreadable",
		Admin:    "Site Admin",
	}, func() { refreshed++ })

	require.NoError(t, err)
	assert.True(t, out.Succeeded)
	assert.Equal(t, "Payment rejected successfully", out.Message)
	assert.Equal(t, 1, refreshed)
	assert.JSONEq(t, `{"rejectionReason":"Receipt unreadable"}`, api.body(http.MethodPut, "/admin/payments/p1/reject"))

	entries, err := journal.ListActionsForTarget(context.Background(), domain.ResourcePayments, "p1", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.OutcomeSucceeded, entries[0].Outcome)
	assert.Equal(t, "Site Admin", entries[0].Admin)
}

func TestDispatchFailureNeverRefreshes(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "server message", message: "Payment already approved", want: "Payment already approved"},
		{name: "generic", message: "", want: "Failed to approve payment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, client, _ := newFakeAPI(t)
			api.on(http.MethodPut, "/admin/payments/p1/approve", http.StatusConflict, nil, tt.message)
			d := NewDispatcher(client, nil, nil)

			refreshed := 0
			out, err := d.Dispatch(context.Background(), Mutation{
				Resource: domain.ResourcePayments, Action: domain.ActionApprove, ID: "p1",
			}, func() { refreshed++ })

			require.Error(t, err)
			assert.False(t, out.Succeeded)
			assert.Equal(t, tt.want, out.Message)
			assert.Zero(t, refreshed)
			assert.Len(t, api.calls(), 1)
		})
	}
}

func TestDispatchUnauthorizedClearsCredentials(t *testing.T) {
	api, client, creds := newFakeAPI(t)
	api.on(http.MethodPut, "/admin/users/u1/approve", http.StatusUnauthorized, nil, "jwt expired")
	d := NewDispatcher(client, nil, nil)

	invalidated := 0
	creds.OnInvalidated(func() { invalidated++ })

	out, err := d.Dispatch(context.Background(), Mutation{
		Resource: domain.ResourceResidents, Action: domain.ActionApprove, ID: "u1",
	}, nil)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Your session has expired. Please log in again.", out.Message)
	_, ok := creds.Token()
	assert.False(t, ok)
	assert.Equal(t, 1, invalidated)
}

func TestDispatchValidatesPayload(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	d := NewDispatcher(client, nil, nil)

	_, err := d.Dispatch(context.Background(), Mutation{
		Resource: domain.ResourceAnnouncements,
		Action:   domain.ActionCreate,
		Payload:  domain.AnnouncementInput{Title: "Water outage", Type: "weather", Priority: "high"},
	}, nil)

	var verrs validation.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.NotEmpty(t, verrs.For("message"))
	assert.NotEmpty(t, verrs.For("type"))
	assert.Empty(t, api.calls())
}

func TestDispatchWrongPayloadType(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	d := NewDispatcher(client, nil, nil)

	_, err := d.Dispatch(context.Background(), Mutation{
		Resource: domain.ResourceAnnouncements,
		Action:   domain.ActionCreate,
		Payload:  domain.DealCategoryInput{Name: "Food"},
	}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, api.calls())
}

func TestDispatchCategoryDefaultsIcon(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	api.on(http.MethodPost, "/admin/deal-categories", http.StatusCreated, nil, "")
	d := NewDispatcher(client, nil, nil)

	_, err := d.Dispatch(context.Background(), Mutation{
		Resource: domain.ResourceDealCategories,
		Action:   domain.ActionCreate,
		Payload:  domain.DealCategoryInput{Name: "Food", IsActive: true},
	}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Food","icon":"pricetag-outline","order":0,"isActive":true}`,
		api.body(http.MethodPost, "/admin/deal-categories"))
}

func TestDispatchCouponCreateUsesDeal(t *testing.T) {
	api, client, _ := newFakeAPI(t)
	api.on(http.MethodPost, "/admin/deals/d1/coupons", http.StatusCreated, nil, "")
	d := NewDispatcher(client, nil, nil)

	_, err := d.Dispatch(context.Background(), Mutation{
		Resource: domain.ResourceCoupons,
		Action:   domain.ActionCreate,
		ParentID: "d1",
		Payload:  domain.CouponInput{Code: "SAVE10", Discount: "10%", UsageType: domain.UsageOneTime},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /api/admin/deals/d1/coupons"}, api.calls())
}

func TestDispatchUnknownAction(t *testing.T) {
	_, client, _ := newFakeAPI(t)
	d := NewDispatcher(client, nil, nil)

	_, err := d.Dispatch(context.Background(), Mutation{
		Resource: domain.ResourceVehicles, Action: domain.ActionDelete, ID: "v1",
	}, nil)
	require.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestLookup(t *testing.T) {
	info, ok := Lookup(domain.ResourceDigitalCards, domain.ActionSuspend)
	require.True(t, ok)
	assert.True(t, info.NeedsReason)
	assert.False(t, info.Destructive)
	assert.Equal(t, "Suspend", info.Label)

	info, ok = Lookup(domain.ResourceDeals, domain.ActionToggleFeatured)
	require.True(t, ok)
	assert.Equal(t, "Toggle featured", info.Label)

	info, ok = Lookup(domain.ResourceResidents, domain.ActionDelete)
	require.True(t, ok)
	assert.True(t, info.Destructive)
}
