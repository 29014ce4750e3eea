package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/validation"
)

// FormData holds data for a create or edit form.
type FormData struct {
	Info      service.ActionInfo
	Title     string
	PostURL   string
	BackURL   string
	Multipart bool
	// Values is the input struct being edited.
	Values   any
	Errors   validation.ValidationErrors
	Message  string
	Options  map[string][]Option
	ImageURL string
}

// formTemplates names the page template of each resource's form.
var formTemplates = map[domain.Resource]string{
	domain.ResourceAnnouncements:  "form_announcement",
	domain.ResourceComplaints:     "form_complaint_status",
	domain.ResourceDeals:          "form_deal",
	domain.ResourceDealCategories: "form_category",
	domain.ResourceCoupons:        "form_coupon",
}

// createTarget is the resource a create route adds to, and the owning deal
// for coupons.
func createTarget(r *http.Request) (domain.Resource, string, error) {
	if dealID := chi.URLParam(r, "id"); dealID != "" {
		return domain.ResourceCoupons, dealID, nil
	}
	resource, err := domain.ParseResource(chi.URLParam(r, "resource"))
	if err != nil || !creatable[resource] {
		return "", "", domain.ErrUnknownResource
	}
	return resource, "", nil
}

// handleCreateForm renders an empty create form.
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	resource, parent, err := createTarget(r)
	if err != nil {
		s.renderError(w, "Page not found", http.StatusNotFound)
		return
	}
	ctx := r.Context()
	ws := getWorkspace(ctx)
	info, _ := service.Lookup(resource, domain.ActionCreate)

	fd := s.newForm(ws, info, "", parent)
	switch resource {
	case domain.ResourceAnnouncements:
		fd.Values = domain.AnnouncementInput{Type: "announcement", Priority: "medium"}
	case domain.ResourceDeals:
		fd.Values = domain.DealInput{}
	case domain.ResourceDealCategories:
		fd.Values = domain.DealCategoryInput{Icon: domain.DefaultCategoryIcon, IsActive: true}
	case domain.ResourceCoupons:
		fd.Values = domain.CouponInput{UsageType: domain.UsageOneTime, MaxUsagePerUser: 1, IsActive: true}
	}
	s.renderForm(w, r, http.StatusOK, s.withFormOptions(ctx, ws, fd))
}

// handleCreate submits a create form.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	resource, parent, err := createTarget(r)
	if err != nil {
		s.renderError(w, "Page not found", http.StatusNotFound)
		return
	}
	info, _ := service.Lookup(resource, domain.ActionCreate)
	s.submit(w, r, info, service.Mutation{
		Resource: resource,
		Action:   domain.ActionCreate,
		ParentID: parent,
		Admin:    getWorkspace(r.Context()).Admin,
	})
}

func (s *Server) newForm(ws *Workspace, info service.ActionInfo, id, parent string) FormData {
	fd := FormData{
		Info:      info,
		Multipart: info.Resource == domain.ResourceDeals,
		BackURL:   s.backURL(ws, info.Resource),
	}
	noun := tabTitle(string(info.Resource))
	switch {
	case info.Action == domain.ActionCreate && parent != "":
		fd.Title = "New coupon"
		fd.PostURL = couponsURL(parent) + "/new"
		fd.BackURL = couponsURL(parent)
	case info.Action == domain.ActionCreate:
		fd.Title = "New " + singular(noun)
		fd.PostURL = "/" + string(info.Resource) + "/new"
	default:
		fd.Title = service.ActionLabel(info.Action) + " " + singular(noun)
		fd.PostURL = recordPath(info.Resource, id) + "/" + string(info.Action)
	}
	return fd
}

func singular(s string) string {
	switch {
	case len(s) > 3 && s[len(s)-3:] == "ies":
		return s[:len(s)-3] + "y"
	case len(s) > 1 && s[len(s)-1] == 's':
		return s[:len(s)-1]
	}
	return s
}

// editForm builds the form for changing rec.
func (s *Server) editForm(ctx context.Context, ws *Workspace, info service.ActionInfo, rec domain.Record) FormData {
	fd := s.newForm(ws, info, rec.RecordID(), "")
	switch v := rec.(type) {
	case domain.Complaint:
		fd.Title = "Update complaint " + v.ComplaintNumber
		fd.Values = domain.ComplaintStatusUpdate{Status: v.Status, AdminResponse: v.AdminResponse}
	case domain.Deal:
		fd.Values = domain.DealInput{
			Name: v.Name, Category: v.Category, Description: v.Description, Discount: v.Discount,
			Phone: v.Phone, Address: v.Address, IsFeatured: v.IsFeatured,
		}
		fd.ImageURL = imageURL(v.Image)
	case domain.DealCategory:
		fd.Values = domain.DealCategoryInput{Name: v.Name, Icon: v.Icon, Order: v.Order, IsActive: v.IsActive}
	case domain.Coupon:
		in := domain.CouponInput{
			Code: v.Code, Description: v.Description, Discount: v.Discount, UsageType: v.UsageType,
			MaxUsagePerUser: v.MaxUsagePerUser, TotalUsageLimit: v.TotalUsageLimit,
			MinPurchase: v.MinPurchase, IsActive: v.IsActive,
		}
		if v.ValidFrom != nil {
			in.ValidFrom = v.ValidFrom.Format("2006-01-02")
		}
		if v.ValidTill != nil {
			in.ValidTill = v.ValidTill.Format("2006-01-02")
		}
		fd.Values = in
		if v.DealID != "" {
			fd.BackURL = couponsURL(v.DealID)
		}
	}
	return s.withFormOptions(ctx, ws, fd)
}

// withFormOptions fills the select options of fd's form.
func (s *Server) withFormOptions(ctx context.Context, ws *Workspace, fd FormData) FormData {
	fd.Options = map[string][]Option{}
	switch fd.Info.Resource {
	case domain.ResourceComplaints:
		fd.Options["status"] = labelled(domain.ComplaintStatuses...)
	case domain.ResourceAnnouncements:
		fd.Options["type"] = labelled("announcement", "maintenance", "security")
		fd.Options["priority"] = labelled("low", "medium", "high", "urgent")
	case domain.ResourceDeals:
		fd.Options["category"] = s.categoryOptions(ctx, ws, "", false)
	case domain.ResourceCoupons:
		fd.Options["usageType"] = labelled(domain.UsageOneTime, domain.UsageMultiple, domain.UsageUnlimited)
	}
	return fd
}

func labelled(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: tabTitle(v)}
	}
	return opts
}

// decodePayload reads the posted form into m's payload. The returned form
// echoes the input back should dispatch fail.
func (s *Server) decodePayload(r *http.Request, ws *Workspace, info service.ActionInfo, m *service.Mutation) (FormData, error) {
	fd := s.newForm(ws, info, m.ID, m.ParentID)
	var err error
	switch info.Resource {
	case domain.ResourceComplaints:
		err = decodeInto[domain.ComplaintStatusUpdate](s, r, &fd, m)
	case domain.ResourceAnnouncements:
		err = decodeInto[domain.AnnouncementInput](s, r, &fd, m)
	case domain.ResourceDealCategories:
		err = decodeInto[domain.DealCategoryInput](s, r, &fd, m)
	case domain.ResourceCoupons:
		err = decodeInto[domain.CouponInput](s, r, &fd, m)
	case domain.ResourceDeals:
		if err = decodeInto[domain.DealInput](s, r, &fd, m); err == nil {
			m.Image, err = formUpload(r, "image")
		}
	default:
		err = fmt.Errorf("%w: no form for %s", domain.ErrUnknownAction, info.Resource)
	}
	return fd, err
}

func decodeInto[T any](s *Server, r *http.Request, fd *FormData, m *service.Mutation) error {
	var in T
	err := s.forms.Decode(&in, r.PostForm)
	fd.Values = in
	if err != nil {
		return err
	}
	m.Payload = in
	return nil
}

// formUpload reads an optional file field. A missing file is not an error.
func formUpload(r *http.Request, field string) (*domain.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, domain.MaxDealImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &domain.Upload{Filename: header.Filename, Data: data}, nil
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, fd FormData) {
	page, ok := formTemplates[fd.Info.Resource]
	if !ok {
		s.renderError(w, "Page not found", http.StatusNotFound)
		return
	}
	s.renderPage(w, r, status, page, s.pageData(r, fd.Title, string(nav(fd.Info.Resource)), fd))
}
