package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
)

// ActionInfo describes how an action is dispatched.
type ActionInfo struct {
	Resource domain.Resource
	Action   domain.Action
	// NeedsReason blocks dispatch until a non-blank reason is given.
	NeedsReason bool
	// Destructive actions must be confirmed before dispatch.
	Destructive bool
	// NeedsPayload actions carry a validated input struct.
	NeedsPayload bool
	Label        string
	verb, done   string
	call         func(ctx context.Context, c *societyapi.Client, m Mutation) error
}

// SuccessMessage is shown after the action succeeds.
func (a ActionInfo) SuccessMessage() string {
	return fmt.Sprintf("%s %s successfully", capitalize(nouns[a.Resource]), a.done)
}

// FailureMessage is shown when the action fails without a server message.
func (a ActionInfo) FailureMessage() string {
	return fmt.Sprintf("Failed to %s %s", a.verb, nouns[a.Resource])
}

type actionKey struct {
	resource domain.Resource
	action   domain.Action
}

var nouns = map[domain.Resource]string{
	domain.ResourceResidents:       "resident",
	domain.ResourceVehicleRequests: "vehicle request",
	domain.ResourceComplaints:      "complaint",
	domain.ResourcePayments:        "payment",
	domain.ResourceDigitalCards:    "digital card",
	domain.ResourceGuestRequests:   "guest request",
	domain.ResourceDeals:           "deal",
	domain.ResourceDealCategories:  "category",
	domain.ResourceCoupons:         "coupon",
	domain.ResourceAnnouncements:   "announcement",
}

var catalog = map[actionKey]ActionInfo{}

func register(info ActionInfo) {
	info.Label = ActionLabel(info.Action)
	catalog[actionKey{info.Resource, info.Action}] = info
}

// Lookup returns how action is dispatched for resource.
func Lookup(resource domain.Resource, action domain.Action) (ActionInfo, bool) {
	info, ok := catalog[actionKey{resource, action}]
	return info, ok
}

func approve(r domain.Resource, call func(*societyapi.Client, context.Context, string) error) {
	register(ActionInfo{Resource: r, Action: domain.ActionApprove, verb: "approve", done: "approved",
		call: func(ctx context.Context, c *societyapi.Client, m Mutation) error { return call(c, ctx, m.ID) }})
}

func withReason(r domain.Resource, a domain.Action, verb, done string,
	call func(*societyapi.Client, context.Context, string, string) error) {
	register(ActionInfo{Resource: r, Action: a, NeedsReason: true, verb: verb, done: done,
		call: func(ctx context.Context, c *societyapi.Client, m Mutation) error { return call(c, ctx, m.ID, m.Reason) }})
}

func byID(r domain.Resource, a domain.Action, verb, done string, call func(*societyapi.Client, context.Context, string) error) {
	register(ActionInfo{Resource: r, Action: a, verb: verb, done: done,
		call: func(ctx context.Context, c *societyapi.Client, m Mutation) error { return call(c, ctx, m.ID) }})
}

func remove(r domain.Resource, call func(*societyapi.Client, context.Context, string) error) {
	register(ActionInfo{Resource: r, Action: domain.ActionDelete, Destructive: true, verb: "delete", done: "deleted",
		call: func(ctx context.Context, c *societyapi.Client, m Mutation) error { return call(c, ctx, m.ID) }})
}

func withPayload[T any](r domain.Resource, a domain.Action, verb, done string,
	call func(ctx context.Context, c *societyapi.Client, m Mutation, in T) error) {
	register(ActionInfo{Resource: r, Action: a, NeedsPayload: true, verb: verb, done: done,
		call: func(ctx context.Context, c *societyapi.Client, m Mutation) error {
			in, ok := m.Payload.(T)
			if !ok {
				return fmt.Errorf("%w: %s %s expects %T, got %T", domain.ErrInvalidInput, r, a, in, m.Payload)
			}
			return call(ctx, c, m, in)
		}})
}

func init() {
	approve(domain.ResourceResidents, (*societyapi.Client).ApproveResident)
	withReason(domain.ResourceResidents, domain.ActionReject, "reject", "rejected", (*societyapi.Client).RejectResident)
	withReason(domain.ResourceResidents, domain.ActionSuspend, "suspend", "suspended", (*societyapi.Client).SuspendResident)
	byID(domain.ResourceResidents, domain.ActionActivate, "activate", "activated", (*societyapi.Client).ActivateResident)
	remove(domain.ResourceResidents, (*societyapi.Client).DeleteResident)

	withPayload(domain.ResourceComplaints, domain.ActionUpdateStatus, "update", "updated",
		func(ctx context.Context, c *societyapi.Client, m Mutation, in domain.ComplaintStatusUpdate) error {
			return c.UpdateComplaintStatus(ctx, m.ID, in)
		})
	remove(domain.ResourceComplaints, (*societyapi.Client).DeleteComplaint)

	approve(domain.ResourcePayments, (*societyapi.Client).ApprovePayment)
	withReason(domain.ResourcePayments, domain.ActionReject, "reject", "rejected", (*societyapi.Client).RejectPayment)

	approve(domain.ResourceVehicleRequests, (*societyapi.Client).ApproveVehicleRequest)
	withReason(domain.ResourceVehicleRequests, domain.ActionReject, "reject", "rejected", (*societyapi.Client).RejectVehicleRequest)

	approve(domain.ResourceDigitalCards, (*societyapi.Client).ApproveCard)
	withReason(domain.ResourceDigitalCards, domain.ActionReject, "reject", "rejected", (*societyapi.Client).RejectCard)
	withReason(domain.ResourceDigitalCards, domain.ActionSuspend, "suspend", "suspended", (*societyapi.Client).SuspendCard)
	byID(domain.ResourceDigitalCards, domain.ActionReactivate, "reactivate", "reactivated", (*societyapi.Client).ReactivateCard)
	remove(domain.ResourceDigitalCards, (*societyapi.Client).DeleteCard)

	approve(domain.ResourceGuestRequests, (*societyapi.Client).ApproveGuestRequest)
	withReason(domain.ResourceGuestRequests, domain.ActionReject, "reject", "rejected", (*societyapi.Client).RejectGuestRequest)
	remove(domain.ResourceGuestRequests, (*societyapi.Client).DeleteGuestRequest)

	withPayload(domain.ResourceDeals, domain.ActionCreate, "create", "created",
		func(ctx context.Context, c *societyapi.Client, m Mutation, in domain.DealInput) error {
			return c.CreateDeal(ctx, in, m.Image)
		})
	withPayload(domain.ResourceDeals, domain.ActionUpdate, "update", "updated",
		func(ctx context.Context, c *societyapi.Client, m Mutation, in domain.DealInput) error {
			return c.UpdateDeal(ctx, m.ID, in, m.Image)
		})
	byID(domain.ResourceDeals, domain.ActionToggleFeatured, "update", "updated", (*societyapi.Client).ToggleDealFeatured)
	byID(domain.ResourceDeals, domain.ActionToggleActive, "update", "updated", (*societyapi.Client).ToggleDealActive)
	remove(domain.ResourceDeals, (*societyapi.Client).DeleteDeal)

	withPayload(domain.ResourceDealCategories, domain.ActionCreate, "create", "created",
		func(ctx context.Context, c *societyapi.Client, m Mutation, in domain.DealCategoryInput) error {
			if in.Icon == "" {
				in.Icon = domain.DefaultCategoryIcon
			}
			return c.CreateCategory(ctx, in)
		})
	withPayload(domain.ResourceDealCategories, domain.ActionUpdate, "update", "updated",
		func(ctx context.Context, c *societyapi.Client, m Mutation, in domain.DealCategoryInput) error {
			return c.UpdateCategory(ctx, m.ID, in)
		})
	byID(domain.ResourceDealCategories, domain.ActionToggleActive, "update", "updated", (*societyapi.Client).ToggleCategoryActive)
	remove(domain.ResourceDealCategories, (*societyapi.Client).DeleteCategory)

	withPayload(domain.ResourceCoupons, domain.ActionCreate, "create", "created",
		func(ctx context.Context, c *societyapi.Client, m Mutation, in domain.CouponInput) error {
			if m.ParentID == "" {
				return fmt.Errorf("%w: coupon needs a deal", domain.ErrInvalidInput)
			}
			return c.CreateCoupon(ctx, m.ParentID, in)
		})
	withPayload(domain.ResourceCoupons, domain.ActionUpdate, "update", "updated",
		func(ctx context.Context, c *societyapi.Client, m Mutation, in domain.CouponInput) error {
			return c.UpdateCoupon(ctx, m.ID, in)
		})
	byID(domain.ResourceCoupons, domain.ActionToggleActive, "update", "updated", (*societyapi.Client).ToggleCouponActive)
	remove(domain.ResourceCoupons, (*societyapi.Client).DeleteCoupon)

	withPayload(domain.ResourceAnnouncements, domain.ActionCreate, "create", "created",
		func(ctx context.Context, c *societyapi.Client, m Mutation, in domain.AnnouncementInput) error {
			return c.CreateAnnouncement(ctx, in)
		})
	remove(domain.ResourceAnnouncements, (*societyapi.Client).DeleteAnnouncement)
}

var labels = map[domain.Action]string{
	domain.ActionView:           "View",
	domain.ActionUpdateStatus:   "Update status",
	domain.ActionUpdate:         "Edit",
	domain.ActionToggleFeatured: "Toggle featured",
	domain.ActionToggleActive:   "Toggle active",
	domain.ActionCoupons:        "Coupons",
}

// ActionLabel is the button text for an action.
func ActionLabel(a domain.Action) string {
	if l, ok := labels[a]; ok {
		return l
	}
	return capitalize(string(a))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
