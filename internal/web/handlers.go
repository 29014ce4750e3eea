package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/auth"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/validation"
)

// LoginData holds data for the login page.
type LoginData struct {
	CNIC   string
	Errors validation.ValidationErrors
}

// handleLoginPage renders the login page.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.sessions.Get(r); err == nil {
		if _, err := s.workspaces.get(sess); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	s.renderLogin(w, http.StatusOK, LoginData{}, nil)
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, data LoginData, flash *FlashMessage) {
	s.renderStatus(w, status, "base-noauth", "login", PageData{Title: "Login", Flash: flash, Content: data})
}

// handleLogin exchanges the admin's CNIC and password for an API token and
// opens a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, http.StatusBadRequest, LoginData{}, &FlashMessage{Type: "error", Message: "Invalid form data"})
		return
	}

	var in domain.LoginInput
	if err := s.forms.Decode(&in, r.PostForm); err != nil {
		s.renderLogin(w, http.StatusBadRequest, LoginData{}, &FlashMessage{Type: "error", Message: "Invalid form data"})
		return
	}
	data := LoginData{CNIC: in.CNIC}
	if err := validation.Login(in); err != nil {
		errors.As(err, &data.Errors)
		s.renderLogin(w, http.StatusUnprocessableEntity, data, nil)
		return
	}

	ctx := r.Context()
	creds := auth.NewTokenStore("")
	client, err := s.newClient(creds, s.log)
	if err != nil {
		s.log.WithError(err).Error("creating api client")
		s.renderLogin(w, http.StatusInternalServerError, data, &FlashMessage{Type: "error", Message: "Server error"})
		return
	}

	token, err := client.Login(ctx, in.CNIC, in.Password)
	if err != nil {
		msg := domain.ServerMessage(err)
		if msg == "" {
			msg = "Login failed. Please check your credentials."
		}
		s.log.WithError(err).Info("login failed")
		s.renderLogin(w, http.StatusUnauthorized, data, &FlashMessage{Type: "error", Message: msg})
		return
	}
	creds.Set(token)

	name := in.CNIC
	if me, err := client.Me(ctx); err == nil && me.FullName != "" {
		name = me.FullName
	}

	sess, err := auth.NewSession(token, name, in.CNIC)
	if err == nil {
		err = s.sessions.Create(w, sess)
	}
	if err != nil {
		s.log.WithError(err).Error("creating session")
		s.renderLogin(w, http.StatusInternalServerError, data, &FlashMessage{Type: "error", Message: "Failed to create session"})
		return
	}
	if _, err := s.workspaces.get(sess); err != nil {
		s.log.WithError(err).Error("opening workspace")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout clears the session and redirects to login.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.sessions.Get(r); err == nil {
		s.workspaces.drop(sess.ID)
	}
	s.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// DashboardData holds data for the dashboard page.
type DashboardData struct {
	Stats  domain.DashboardStats
	Recent []*domain.ActionRecord
}

// handleDashboard renders the dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ws := getWorkspace(ctx)

	data := DashboardData{Stats: service.Dashboard(ctx, ws.client, ws.log)}
	if s.sessionLost(w, r, ws) {
		return
	}
	if s.journal != nil {
		recent, err := s.journal.ListActions(ctx, 5, 0)
		if err != nil {
			ws.log.WithError(err).Warn("loading recent activity")
		}
		data.Recent = recent
	}

	s.render(w, "base", "dashboard", s.pageData(r, "Dashboard", "dashboard", data))
}

// ActivityData holds data for the activity page.
type ActivityData struct {
	Entries  []*domain.ActionRecord
	Total    int
	Page     int
	PrevPage int
	NextPage int
}

const activityPageSize = 50

// handleActivity lists journaled admin actions, newest first.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := ActivityData{Page: pageParam(r)}

	if s.journal != nil {
		var err error
		data.Total, err = s.journal.CountActions(ctx)
		if err == nil {
			data.Entries, err = s.journal.ListActions(ctx, activityPageSize, (data.Page-1)*activityPageSize)
		}
		if err != nil {
			s.log.WithError(err).Error("loading activity")
			s.renderError(w, "Failed to load activity", http.StatusInternalServerError)
			return
		}
	}
	if data.Page > 1 {
		data.PrevPage = data.Page - 1
	}
	if data.Page*activityPageSize < data.Total {
		data.NextPage = data.Page + 1
	}

	s.render(w, "base", "activity", s.pageData(r, "Activity", "activity", data))
}

// handleSidebar renders the badge counts. It never polls; the workspace's
// counter does that on its own schedule.
func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	ws := getWorkspace(r.Context())
	data := PageData{Active: r.URL.Query().Get("active"), Badges: ws.counter.Counts()}
	s.renderComponent(w, "sidebar", data)
}

// pageData fills the fields every authenticated page shows.
func (s *Server) pageData(r *http.Request, title, active string, data any) PageData {
	ws := getWorkspace(r.Context())
	pd := PageData{Title: title, Active: active, Content: data}
	if ws != nil {
		pd.Admin = ws.Admin
		pd.Badges = ws.counter.Counts()
		pd.Flash = ws.popFlash()
	}
	if sess := getSession(r.Context()); sess != nil {
		pd.CSRFToken = sess.CSRFToken
	}
	return pd
}

// sessionLost reports whether the API has rejected the workspace's
// credential, and if so sends the browser to the login page.
func (s *Server) sessionLost(w http.ResponseWriter, r *http.Request, ws *Workspace) bool {
	if _, ok := ws.creds.Token(); ok {
		return false
	}
	s.sessions.Clear(w)
	s.redirectToLogin(w, r)
	return true
}

// await waits for a list ticket with an upper bound so a wedged upstream
// cannot hold the page forever.
func await(ctx context.Context, l lister, ticket uint64, limit time.Duration) (listView, error) {
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()
	return l.Await(ctx, ticket)
}

// render renders a full page using the base template.
// page is the page name (e.g., "login", "dashboard", "list")
// base is the base template to use ("base" or "base-noauth")
func (s *Server) render(w http.ResponseWriter, base, page string, data PageData) {
	s.renderStatus(w, http.StatusOK, base, page, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, status int, block, page string, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		http.Error(w, "Template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, block, data); err != nil {
		s.log.WithError(err).WithField("template", page).Error("template error")
	}
}

// renderFragment renders just the flash and content for htmx requests.
func (s *Server) renderFragment(w http.ResponseWriter, status int, page string, data any) {
	s.renderStatus(w, status, "fragment", page, data)
}

// renderPage renders the full page, or only its content for htmx requests.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	if isHTMX(r) {
		s.renderFragment(w, status, page, data)
		return
	}
	s.renderStatus(w, status, "base", page, data)
}

// renderComponent renders a shared component such as the sidebar.
func (s *Server) renderComponent(w http.ResponseWriter, name string, data any) {
	s.renderStatus(w, http.StatusOK, name, "dashboard", data)
}

// renderError renders an error message.
func (s *Server) renderError(w http.ResponseWriter, message string, status int) {
	s.renderStatus(w, status, "flash", "dashboard", &FlashMessage{Type: "error", Message: message})
}
