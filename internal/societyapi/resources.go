package societyapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

type reasonBody struct {
	Reason string `json:"reason"`
}

type rejectionBody struct {
	RejectionReason string `json:"rejectionReason"`
}

type suspensionBody struct {
	SuspensionReason string `json:"suspensionReason"`
}

type adminResponseBody struct {
	AdminResponse string `json:"adminResponse"`
}

type emptyBody struct{}

// Login exchanges a CNIC and password for a bearer token. The token is not
// stored; callers decide where it lives.
func (c *Client) Login(ctx context.Context, cnic, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"cnicNumber": cnic, "password": password}
	if err := c.sendJSON(ctx, "auth.login", http.MethodPost, "/admin/auth/login", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("auth.login: response carried no token")
	}
	return out.Token, nil
}

// Me returns the logged-in admin.
func (c *Client) Me(ctx context.Context) (*domain.AdminProfile, error) {
	var out struct {
		Admin *domain.AdminProfile `json:"admin"`
		domain.AdminProfile
	}
	if err := c.getJSON(ctx, "auth.me", "/admin/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if out.Admin != nil {
		return out.Admin, nil
	}
	return &out.AdminProfile, nil
}

// Residents

func (c *Client) ListResidents(ctx context.Context, params url.Values) ([]domain.Resident, error) {
	return listOf[domain.Resident](ctx, c, "users.list", "/admin/users", params)
}

func (c *Client) GetResident(ctx context.Context, id string) (*domain.ResidentDetail, error) {
	return oneOf[domain.ResidentDetail](ctx, c, "users.get", "/admin/users/"+escape(id))
}

func (c *Client) ApproveResident(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "users.approve", http.MethodPut, "/admin/users/"+escape(id)+"/approve", nil, nil)
}

func (c *Client) RejectResident(ctx context.Context, id, reason string) error {
	return c.sendJSON(ctx, "users.reject", http.MethodPut, "/admin/users/"+escape(id)+"/reject", reasonBody{reason}, nil)
}

func (c *Client) SuspendResident(ctx context.Context, id, reason string) error {
	return c.sendJSON(ctx, "users.suspend", http.MethodPut, "/admin/users/"+escape(id)+"/suspend", reasonBody{reason}, nil)
}

func (c *Client) ActivateResident(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "users.activate", http.MethodPut, "/admin/users/"+escape(id)+"/activate", nil, nil)
}

func (c *Client) DeleteResident(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "users.delete", http.MethodDelete, "/admin/users/"+escape(id), nil, nil)
}

func (c *Client) UserStats(ctx context.Context) (*domain.UserStats, error) {
	return oneOf[domain.UserStats](ctx, c, "users.stats", "/admin/users/stats")
}

// Complaints

func (c *Client) ListComplaints(ctx context.Context, params url.Values) ([]domain.Complaint, error) {
	return listOf[domain.Complaint](ctx, c, "complaints.list", "/admin/complaints", params)
}

func (c *Client) GetComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	return oneOf[domain.Complaint](ctx, c, "complaints.get", "/admin/complaints/"+escape(id))
}

func (c *Client) UpdateComplaintStatus(ctx context.Context, id string, update domain.ComplaintStatusUpdate) error {
	return c.sendJSON(ctx, "complaints.status", http.MethodPut, "/admin/complaints/"+escape(id)+"/status", update, nil)
}

func (c *Client) DeleteComplaint(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "complaints.delete", http.MethodDelete, "/admin/complaints/"+escape(id), nil, nil)
}

func (c *Client) ComplaintStats(ctx context.Context) (*domain.ComplaintStats, error) {
	return oneOf[domain.ComplaintStats](ctx, c, "complaints.stats", "/admin/complaints/stats")
}

// Payments

func (c *Client) ListPayments(ctx context.Context, params url.Values) ([]domain.Payment, error) {
	return listOf[domain.Payment](ctx, c, "payments.list", "/admin/payments", params)
}

func (c *Client) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return oneOf[domain.Payment](ctx, c, "payments.get", "/admin/payments/"+escape(id))
}

func (c *Client) ApprovePayment(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "payments.approve", http.MethodPut, "/admin/payments/"+escape(id)+"/approve", emptyBody{}, nil)
}

func (c *Client) RejectPayment(ctx context.Context, id, reason string) error {
	return c.sendJSON(ctx, "payments.reject", http.MethodPut, "/admin/payments/"+escape(id)+"/reject", rejectionBody{reason}, nil)
}

func (c *Client) PaymentStats(ctx context.Context) (*domain.PaymentStats, error) {
	return oneOf[domain.PaymentStats](ctx, c, "payments.stats", "/admin/payments/stats/overview")
}

// Vehicles

func (c *Client) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return listOf[domain.Vehicle](ctx, c, "vehicles.list", "/admin/vehicles/all", nil)
}

func (c *Client) ListVehicleRequests(ctx context.Context, params url.Values) ([]domain.VehicleRequest, error) {
	return listOf[domain.VehicleRequest](ctx, c, "vehicle_requests.list", "/admin/vehicles/change-requests/all", params)
}

func (c *Client) ApproveVehicleRequest(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "vehicle_requests.approve", http.MethodPut,
		"/admin/vehicles/change-requests/"+escape(id)+"/approve", nil, nil)
}

func (c *Client) RejectVehicleRequest(ctx context.Context, id, reason string) error {
	return c.sendJSON(ctx, "vehicle_requests.reject", http.MethodPut,
		"/admin/vehicles/change-requests/"+escape(id)+"/reject", reasonBody{reason}, nil)
}

// Announcements

func (c *Client) ListAnnouncements(ctx context.Context, params url.Values) ([]domain.Announcement, error) {
	return listOf[domain.Announcement](ctx, c, "announcements.list", "/admin/announcements", params)
}

func (c *Client) CreateAnnouncement(ctx context.Context, in domain.AnnouncementInput) error {
	return c.sendJSON(ctx, "announcements.create", http.MethodPost, "/admin/announcements", in, nil)
}

func (c *Client) DeleteAnnouncement(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "announcements.delete", http.MethodDelete, "/admin/announcements/"+escape(id), nil, nil)
}

// Digital cards

func (c *Client) ListCards(ctx context.Context, params url.Values) ([]domain.DigitalCard, error) {
	return listOf[domain.DigitalCard](ctx, c, "cards.list", "/admin/digital-cards", params)
}

func (c *Client) GetCard(ctx context.Context, id string) (*domain.DigitalCard, error) {
	detail, err := oneOf[domain.DigitalCardDetail](ctx, c, "cards.get", "/admin/digital-cards/"+escape(id))
	if err != nil {
		return nil, err
	}
	return &detail.Card, nil
}

func (c *Client) ApproveCard(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "cards.approve", http.MethodPut, "/admin/digital-cards/"+escape(id)+"/approve", emptyBody{}, nil)
}

func (c *Client) RejectCard(ctx context.Context, id, reason string) error {
	return c.sendJSON(ctx, "cards.reject", http.MethodPut, "/admin/digital-cards/"+escape(id)+"/reject", rejectionBody{reason}, nil)
}

func (c *Client) SuspendCard(ctx context.Context, id, reason string) error {
	return c.sendJSON(ctx, "cards.suspend", http.MethodPut, "/admin/digital-cards/"+escape(id)+"/suspend", suspensionBody{reason}, nil)
}

func (c *Client) ReactivateCard(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "cards.reactivate", http.MethodPut, "/admin/digital-cards/"+escape(id)+"/reactivate", emptyBody{}, nil)
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "cards.delete", http.MethodDelete, "/admin/digital-cards/"+escape(id), nil, nil)
}

func (c *Client) CardStats(ctx context.Context) (*domain.CardStats, error) {
	return oneOf[domain.CardStats](ctx, c, "cards.stats", "/admin/digital-cards/stats/overview")
}

// Guest requests

func (c *Client) ListGuestRequests(ctx context.Context, params url.Values) ([]domain.GuestRequest, error) {
	return listOf[domain.GuestRequest](ctx, c, "guest_requests.list", "/admin/guest-requests", params)
}

func (c *Client) GetGuestRequest(ctx context.Context, id string) (*domain.GuestRequest, error) {
	return oneOf[domain.GuestRequest](ctx, c, "guest_requests.get", "/admin/guest-requests/"+escape(id))
}

func (c *Client) ApproveGuestRequest(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "guest_requests.approve", http.MethodPut, "/admin/guest-requests/"+escape(id)+"/approve", nil, nil)
}

func (c *Client) RejectGuestRequest(ctx context.Context, id, reason string) error {
	return c.sendJSON(ctx, "guest_requests.reject", http.MethodPut,
		"/admin/guest-requests/"+escape(id)+"/reject", adminResponseBody{reason}, nil)
}

func (c *Client) DeleteGuestRequest(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "guest_requests.delete", http.MethodDelete, "/admin/guest-requests/"+escape(id), nil, nil)
}

func (c *Client) GuestStats(ctx context.Context) (*domain.GuestStats, error) {
	return oneOf[domain.GuestStats](ctx, c, "guest_requests.stats", "/admin/guest-requests/stats")
}

// Deals

func (c *Client) ListDeals(ctx context.Context, params url.Values) ([]domain.Deal, error) {
	return listOf[domain.Deal](ctx, c, "deals.list", "/admin/deals", params)
}

func (c *Client) GetDeal(ctx context.Context, id string) (*domain.Deal, error) {
	return oneOf[domain.Deal](ctx, c, "deals.get", "/admin/deals/"+escape(id))
}

// CreateDeal posts a deal as multipart form data. image may be nil.
func (c *Client) CreateDeal(ctx context.Context, in domain.DealInput, image *domain.Upload) error {
	r, err := dealRequest("deals.create", http.MethodPost, "/admin/deals", in, image)
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

// UpdateDeal replaces a deal's fields; the image is kept when image is nil.
func (c *Client) UpdateDeal(ctx context.Context, id string, in domain.DealInput, image *domain.Upload) error {
	r, err := dealRequest("deals.update", http.MethodPut, "/admin/deals/"+escape(id), in, image)
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

func (c *Client) DeleteDeal(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "deals.delete", http.MethodDelete, "/admin/deals/"+escape(id), nil, nil)
}

func (c *Client) ToggleDealFeatured(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "deals.toggle_featured", http.MethodPatch, "/admin/deals/"+escape(id)+"/toggle-featured", nil, nil)
}

func (c *Client) ToggleDealActive(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "deals.toggle_active", http.MethodPatch, "/admin/deals/"+escape(id)+"/toggle-active", nil, nil)
}

func (c *Client) DealStats(ctx context.Context) (*domain.DealStats, error) {
	return oneOf[domain.DealStats](ctx, c, "deals.stats", "/admin/deals/stats")
}

// Deal categories

func (c *Client) ListCategories(ctx context.Context, params url.Values) ([]domain.DealCategory, error) {
	return listOf[domain.DealCategory](ctx, c, "categories.list", "/admin/deal-categories", params)
}

func (c *Client) GetCategory(ctx context.Context, id string) (*domain.DealCategory, error) {
	return oneOf[domain.DealCategory](ctx, c, "categories.get", "/admin/deal-categories/"+escape(id))
}

func (c *Client) CreateCategory(ctx context.Context, in domain.DealCategoryInput) error {
	return c.sendJSON(ctx, "categories.create", http.MethodPost, "/admin/deal-categories", in, nil)
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in domain.DealCategoryInput) error {
	return c.sendJSON(ctx, "categories.update", http.MethodPut, "/admin/deal-categories/"+escape(id), in, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "categories.delete", http.MethodDelete, "/admin/deal-categories/"+escape(id), nil, nil)
}

func (c *Client) ToggleCategoryActive(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "categories.toggle_active", http.MethodPatch,
		"/admin/deal-categories/"+escape(id)+"/toggle-active", nil, nil)
}

// Coupons

func (c *Client) ListCoupons(ctx context.Context, dealID string) ([]domain.Coupon, error) {
	return listOf[domain.Coupon](ctx, c, "coupons.list", "/admin/deals/"+escape(dealID)+"/coupons", nil)
}

func (c *Client) GetCoupon(ctx context.Context, id string) (*domain.Coupon, error) {
	return oneOf[domain.Coupon](ctx, c, "coupons.get", "/admin/deals/coupons/"+escape(id))
}

func (c *Client) CreateCoupon(ctx context.Context, dealID string, in domain.CouponInput) error {
	return c.sendJSON(ctx, "coupons.create", http.MethodPost, "/admin/deals/"+escape(dealID)+"/coupons", in, nil)
}

func (c *Client) UpdateCoupon(ctx context.Context, id string, in domain.CouponInput) error {
	return c.sendJSON(ctx, "coupons.update", http.MethodPut, "/admin/deals/coupons/"+escape(id), in, nil)
}

func (c *Client) DeleteCoupon(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "coupons.delete", http.MethodDelete, "/admin/deals/coupons/"+escape(id), nil, nil)
}

func (c *Client) ToggleCouponActive(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "coupons.toggle_active", http.MethodPatch, "/admin/deals/coupons/"+escape(id)+"/toggle-active", nil, nil)
}
