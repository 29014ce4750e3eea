package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/listing"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
)

// listWait bounds how long a page waits for its list fetch.
const listWait = 30 * time.Second

// TabLink is one status tab on a list page.
type TabLink struct {
	Label  string
	URL    string
	Active bool
}

// Option is a select option.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ListData holds data for a list page and its live fragment.
type ListData struct {
	Spec        listing.ResourceSpec
	Filter      listing.Filter
	Tabs        []TabLink
	Cards       []Card
	Loading     bool
	Error       string
	FragmentURL string
	CreateURL   string
	// Deal is set on a deal's coupon page.
	Deal *domain.Deal
	// DealStats heads the deals page when the stats endpoint answers.
	DealStats *domain.DealStats
	// Selects are the extra filter dropdowns, keyed by param name.
	Selects map[string][]Option
}

var creatable = map[domain.Resource]bool{
	domain.ResourceAnnouncements:  true,
	domain.ResourceDeals:          true,
	domain.ResourceDealCategories: true,
}

func (s *Server) resolveResource(w http.ResponseWriter, r *http.Request) (domain.Resource, bool) {
	resource, err := domain.ParseResource(chi.URLParam(r, "resource"))
	if err != nil {
		s.renderError(w, "Page not found", http.StatusNotFound)
		return "", false
	}
	return resource, true
}

// handleList renders a resource list page. The page's filter comes from the
// URL and is fetched again on every visit, except for the redirect that
// follows an action, which picks up the refresh the action started.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resolveResource(w, r)
	if !ok {
		return
	}
	if resource == domain.ResourceCoupons {
		s.renderError(w, "Coupons are listed per deal", http.StatusNotFound)
		return
	}
	s.showList(w, r, resource, r.URL.Query(), nil)
}

// handleCoupons renders the coupon list of one deal.
func (s *Server) handleCoupons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ws := getWorkspace(ctx)
	dealID := chi.URLParam(r, "id")

	deal, err := ws.client.GetDeal(ctx, dealID)
	if err != nil {
		s.recordError(w, r, ws, domain.ResourceDeals, err)
		return
	}
	q := r.URL.Query()
	q.Set("deal", dealID)
	s.showList(w, r, domain.ResourceCoupons, q, deal)
}

func (s *Server) showList(w http.ResponseWriter, r *http.Request, resource domain.Resource, q url.Values, deal *domain.Deal) {
	ctx := r.Context()
	ws := getWorkspace(ctx)
	l, _ := ws.list(resource)
	spec := l.Spec()

	f := listing.FilterFromQuery(spec, q)
	view, err := await(ctx, l, l.Load(f), listWait)
	switch {
	case errors.Is(err, domain.ErrSuperseded), errors.Is(err, context.DeadlineExceeded):
		view = l.View()
	case err != nil:
		return
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	data := s.listData(ws, spec, f, view)
	data.Deal = deal
	if deal != nil {
		data.CreateURL = couponsURL(deal.ID) + "/new"
	}
	if resource == domain.ResourceDeals {
		data.Selects["category"] = s.categoryOptions(ctx, ws, f.Param("category"), true)
		if stats, err := ws.client.DealStats(ctx); err != nil {
			ws.log.WithError(err).Warn("deal stats unavailable")
		} else {
			data.DealStats = stats
		}
	}
	s.render(w, "base", "list", s.pageData(r, spec.Title, string(nav(resource)), data))
}

// handleListFragment serves live filtering. Changes are debounced by the
// list's controller; a request overtaken by a newer one gets 204 so the page
// keeps waiting for the newer response.
func (s *Server) handleListFragment(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resolveResource(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	ws := getWorkspace(ctx)
	l, _ := ws.list(resource)
	spec := l.Spec()

	f := listing.FilterFromQuery(spec, r.URL.Query())
	view, err := await(ctx, l, l.Notify(f), listWait)
	switch {
	case errors.Is(err, domain.ErrSuperseded):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		return
	}
	if s.sessionLost(w, r, ws) {
		return
	}

	data := s.listData(ws, spec, f, view)
	w.Header().Set("HX-Push-Url", f.URL(spec))
	s.renderStatus(w, http.StatusOK, "rows", "list", data)
}

func (s *Server) listData(ws *Workspace, spec listing.ResourceSpec, f listing.Filter, view listView) ListData {
	now := s.now()
	data := ListData{
		Spec:        spec,
		Filter:      f,
		Loading:     view.Loading,
		FragmentURL: "/" + string(spec.Resource) + "/list",
		Selects:     map[string][]Option{},
	}
	if view.Err != nil {
		data.Error = "Failed to load " + spec.Title
	}
	if creatable[spec.Resource] {
		data.CreateURL = "/" + string(spec.Resource) + "/new"
	}
	for _, t := range spec.Tabs {
		data.Tabs = append(data.Tabs, TabLink{Label: t.Label, URL: f.WithTab(spec, t.Value), Active: t.Value == f.Tab})
	}
	for _, rec := range view.Records {
		data.Cards = append(data.Cards, present(spec.Resource, rec, now))
	}
	if spec.Resource == domain.ResourcePayments {
		data.Selects["month"] = monthOptions(f.Param("month"))
		data.Selects["year"] = yearOptions(f.Param("year"), now)
		data.Selects["sort"] = []Option{
			{Value: listing.SortByDate, Label: "Sort by date"},
			{Value: listing.SortByAmount, Label: "Sort by amount"},
			{Value: listing.SortByMonth, Label: "Sort by month"},
		}
		for i := range data.Selects["sort"] {
			data.Selects["sort"][i].Selected = data.Selects["sort"][i].Value == f.Param("sort")
		}
	}
	return data
}

// categoryOptions lists deal categories for a select. Failures leave only
// the blank option.
func (s *Server) categoryOptions(ctx context.Context, ws *Workspace, selected string, withAll bool) []Option {
	var opts []Option
	if withAll {
		opts = append(opts, Option{Value: "", Label: "All categories"})
	}
	cats, err := ws.client.ListCategories(ctx, nil)
	if err != nil {
		ws.log.WithError(err).Warn("loading deal categories")
		return opts
	}
	for _, c := range cats {
		opts = append(opts, Option{Value: c.Name, Label: c.Name, Selected: c.Name == selected})
	}
	return opts
}

// nav is the sidebar entry a resource's pages highlight.
func nav(r domain.Resource) domain.Resource {
	if r == domain.ResourceCoupons {
		return domain.ResourceDeals
	}
	return r
}

// DetailData holds data for a record's detail page.
type DetailData struct {
	Card    Card
	Related []Card
	History []*domain.ActionRecord
	BackURL string
}

// handleDetail renders one record.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resolveResource(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	ws := getWorkspace(ctx)
	id := chi.URLParam(r, "id")

	rec, related, err := s.fetchRecord(ctx, ws, resource, id)
	if err != nil {
		s.recordError(w, r, ws, resource, err)
		return
	}

	now := s.now()
	data := DetailData{Card: present(resource, rec, now), BackURL: s.backURL(ws, resource)}
	for _, v := range related {
		data.Related = append(data.Related, present(domain.ResourceVehicles, v, now))
	}
	if s.journal != nil {
		history, err := s.journal.ListActionsForTarget(ctx, resource, id, 10)
		if err != nil {
			ws.log.WithError(err).Warn("loading record history")
		}
		data.History = history
	}

	s.renderPage(w, r, http.StatusOK, "detail", s.pageData(r, data.Card.Title, string(nav(resource)), data))
}

// fetchRecord loads a record for display. Resources without a single-record
// endpoint are looked up in the list the admin is viewing.
func (s *Server) fetchRecord(ctx context.Context, ws *Workspace, resource domain.Resource, id string) (domain.Record, []domain.Record, error) {
	rec, related, err := service.GetRecord(ctx, ws.client, resource, id)
	if !errors.Is(err, service.ErrNoRecordEndpoint) {
		return rec, related, err
	}

	l, ok := ws.list(resource)
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	rec, ok = l.Find(id)
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	return rec, nil, nil
}

// recordError reports a failed record load.
func (s *Server) recordError(w http.ResponseWriter, r *http.Request, ws *Workspace, resource domain.Resource, err error) {
	switch {
	case s.sessionLost(w, r, ws):
	case errors.Is(err, domain.ErrNotFound):
		s.renderError(w, "Record not found", http.StatusNotFound)
	default:
		ws.log.WithError(err).WithField("resource", resource).Warn("loading record")
		msg := domain.ServerMessage(err)
		if msg == "" {
			msg = "Failed to load record"
		}
		s.renderError(w, msg, http.StatusBadGateway)
	}
}

// backURL is the list page the admin came from, with its current filter.
func (s *Server) backURL(ws *Workspace, resource domain.Resource) string {
	l, ok := ws.list(resource)
	if !ok {
		return "/"
	}
	return l.View().Requested.URL(l.Spec())
}

// DialogData holds data for an action confirmation dialog.
type DialogData struct {
	Info    service.ActionInfo
	Card    *Card
	PostURL string
	Reason  string
	Error   string
	BackURL string
}

// handleActionDialog renders the dialog for an action, or the edit form for
// actions that carry input.
func (s *Server) handleActionDialog(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resolveResource(w, r)
	if !ok {
		return
	}
	action := domain.Action(chi.URLParam(r, "action"))
	info, ok := service.Lookup(resource, action)
	if !ok {
		s.renderError(w, "This action is not available", http.StatusNotFound)
		return
	}
	ctx := r.Context()
	ws := getWorkspace(ctx)
	id := chi.URLParam(r, "id")

	if info.NeedsPayload {
		rec, _, err := s.fetchRecord(ctx, ws, resource, id)
		if err != nil {
			s.recordError(w, r, ws, resource, err)
			return
		}
		s.renderForm(w, r, http.StatusOK, s.editForm(ctx, ws, info, rec))
		return
	}

	s.renderDialog(w, r, http.StatusOK, s.dialogData(ws, info, id))
}

func (s *Server) dialogData(ws *Workspace, info service.ActionInfo, id string) DialogData {
	data := DialogData{
		Info:    info,
		PostURL: recordPath(info.Resource, id) + "/" + string(info.Action),
		BackURL: s.backURL(ws, info.Resource),
	}
	if l, ok := ws.list(info.Resource); ok {
		if rec, ok := l.Find(id); ok {
			c := present(info.Resource, rec, s.now())
			data.Card = &c
		}
	}
	return data
}

func (s *Server) renderDialog(w http.ResponseWriter, r *http.Request, status int, data DialogData) {
	title := service.ActionLabel(data.Info.Action)
	s.renderPage(w, r, status, "dialog", s.pageData(r, title, string(nav(data.Info.Resource)), data))
}

// handleAction dispatches an action submitted from its dialog or edit form.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	resource, ok := s.resolveResource(w, r)
	if !ok {
		return
	}
	action := domain.Action(chi.URLParam(r, "action"))
	info, ok := service.Lookup(resource, action)
	if !ok {
		s.renderError(w, "This action is not available", http.StatusNotFound)
		return
	}
	m := service.Mutation{
		Resource:  resource,
		Action:    action,
		ID:        chi.URLParam(r, "id"),
		Reason:    r.PostFormValue("reason"),
		Confirmed: r.PostFormValue("confirm") == "yes",
		Admin:     getWorkspace(r.Context()).Admin,
	}
	s.submit(w, r, info, m)
}

// submit dispatches m. On success the list is refreshed once and the admin
// is sent back to it; on failure the dialog or form is shown again with the
// error.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, info service.ActionInfo, m service.Mutation) {
	ctx := r.Context()
	ws := getWorkspace(ctx)

	var fd FormData
	if info.NeedsPayload {
		var err error
		fd, err = s.decodePayload(r, ws, info, &m)
		if err != nil {
			ws.log.WithError(err).Debug("decoding form")
			fd.Message = "Invalid form data"
			s.renderForm(w, r, http.StatusBadRequest, s.withFormOptions(ctx, ws, fd))
			return
		}
	}

	out, err := s.dispatch(ws, m)
	if err != nil {
		if s.sessionLost(w, r, ws) {
			return
		}
		if info.NeedsPayload {
			fd.Message = out.Message
			errors.As(err, &fd.Errors)
			s.renderForm(w, r, http.StatusUnprocessableEntity, s.withFormOptions(ctx, ws, fd))
			return
		}
		data := s.dialogData(ws, info, m.ID)
		data.Reason = m.Reason
		data.Error = out.Message
		s.renderDialog(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ws.setFlash("success", out.Message)
	back := s.backURL(ws, m.Resource)
	if m.Resource == domain.ResourceCoupons && m.ParentID != "" {
		back = couponsURL(m.ParentID)
	}
	redirect(w, r, back)
}

// dispatch runs m and refreshes its list on success. The request context
// is not used: a mutation the admin has submitted runs to completion even if
// the browser goes away.
func (s *Server) dispatch(ws *Workspace, m service.Mutation) (service.Outcome, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.APITimeout+5*time.Second)
	defer cancel()

	var refresh func()
	if l, ok := ws.list(m.Resource); ok {
		refresh = func() { l.Refresh() }
	}
	return ws.dispatcher.Dispatch(ctx, m, refresh)
}
