package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form"
	"github.com/sirupsen/logrus"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/auth"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/listing"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage"
)

//go:embed templates/* static/*
var content embed.FS

// Config holds the console settings that come from the environment.
type Config struct {
	APIBaseURL     string
	APITimeout     time.Duration
	SearchDebounce time.Duration
	SimpleDebounce time.Duration
	PollInterval   time.Duration
	IdleTimeout    time.Duration
	// Transport replaces the HTTP transport to the society API. Tests only.
	Transport http.RoundTripper
	// Scheduler replaces the list debounce timers. Tests only.
	Scheduler listing.Scheduler
}

// Server holds dependencies for web handlers.
type Server struct {
	cfg        Config
	sessions   *auth.SessionManager
	journal    storage.Journal
	log        logrus.FieldLogger
	workspaces *workspaces
	forms      *form.Decoder
	templates  map[string]*template.Template
	funcMap    template.FuncMap
	now        func() time.Time

	stopJanitor chan struct{}
	janitorDone chan struct{}
}

// NewServer creates the console. Close releases every workspace.
func NewServer(cfg Config, sessions *auth.SessionManager, journal storage.Journal, log logrus.FieldLogger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		journal:  journal,
		log:      log,
		forms:    form.NewDecoder(),
		now:      time.Now,
	}
	templates, err := s.parseTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates
	s.workspaces = newWorkspaces(s.buildWorkspace, cfg.IdleTimeout, log)
	return s, nil
}

// Handler returns the router with all routes configured.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Static files
	staticFS, _ := fs.Sub(content, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Public routes
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	// Protected routes (require session)
	r.Group(func(r chi.Router) {
		r.Use(s.sessionAuth)
		r.Use(s.csrfProtect)

		r.Get("/", s.handleDashboard)
		r.Get("/activity", s.handleActivity)
		r.Get("/sidebar", s.handleSidebar)

		// Coupons are managed under their deal.
		r.Get("/deals/{id}/coupons", s.handleCoupons)
		r.Get("/deals/{id}/coupons/new", s.handleCreateForm)
		r.Post("/deals/{id}/coupons/new", s.handleCreate)

		r.Get("/{resource}", s.handleList)
		r.Get("/{resource}/list", s.handleListFragment)
		r.Get("/{resource}/new", s.handleCreateForm)
		r.Post("/{resource}/new", s.handleCreate)
		r.Get("/{resource}/{id}", s.handleDetail)
		r.Get("/{resource}/{id}/{action}", s.handleActionDialog)
		r.Post("/{resource}/{id}/{action}", s.handleAction)
	})

	return r
}

// StartJanitor evicts idle workspaces every interval until Close.
func (s *Server) StartJanitor(interval time.Duration) {
	s.stopJanitor = make(chan struct{})
	s.janitorDone = make(chan struct{})
	go func() {
		defer close(s.janitorDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopJanitor:
				return
			case <-ticker.C:
				s.workspaces.evictIdle()
			}
		}
	}()
}

// Close stops the janitor and closes every workspace.
func (s *Server) Close() {
	if s.stopJanitor != nil {
		close(s.stopJanitor)
		<-s.janitorDone
		s.stopJanitor = nil
	}
	s.workspaces.closeAll()
}

func (s *Server) buildWorkspace(sess *auth.Session) (*Workspace, error) {
	creds := auth.NewTokenStore(sess.Token)
	log := s.log.WithField("session", sess.ID)
	client, err := s.newClient(creds, log)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		ID:     sess.ID,
		Admin:  sess.AdminName,
		creds:  creds,
		client: client,
		lists: newLists(client, listSettings{
			searchDebounce: s.cfg.SearchDebounce,
			simpleDebounce: s.cfg.SimpleDebounce,
			scheduler:      s.cfg.Scheduler,
			log:            log,
		}),
		counter:    service.NewCounter(client, s.cfg.PollInterval, log),
		dispatcher: service.NewDispatcher(client, s.journal, log),
		expiresAt:  sess.ExpiresAt,
		log:        log,
	}, nil
}

func (s *Server) newClient(creds auth.Credentials, log logrus.FieldLogger) (*societyapi.Client, error) {
	opts := []societyapi.Option{societyapi.WithTimeout(s.cfg.APITimeout), societyapi.WithLogger(log)}
	if s.cfg.Transport != nil {
		opts = append(opts, societyapi.WithTransport(s.cfg.Transport))
	}
	return societyapi.New(s.cfg.APIBaseURL, creds, opts...)
}

// parseTemplates parses all templates with custom functions.
func (s *Server) parseTemplates() (map[string]*template.Template, error) {
	s.funcMap = template.FuncMap{
		"join":       strings.Join,
		"lower":      strings.ToLower,
		"title":      tabTitle,
		"dict":       dict,
		"date":       func(t time.Time) string { return formatDate(&t) },
		"datetime":   func(t time.Time) string { return t.Format("Jan 2, 2006 15:04") },
		"resources":  func() []domain.Resource { return domain.Resources },
		"navTitle":   navTitle,
		"statusTone": statusTone,
	}

	templates := make(map[string]*template.Template)

	// Read base template and components
	var base strings.Builder
	for _, name := range []string{"templates/base.html", "templates/components/sidebar.html",
		"templates/components/flash.html", "templates/components/cards.html", "templates/components/forms.html"} {
		b, err := content.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		base.Write(b)
	}

	// Parse each page template separately with the base
	pageFiles, _ := fs.Glob(content, "templates/pages/*.html")
	for _, pagePath := range pageFiles {
		pageName := strings.TrimSuffix(filepath.Base(pagePath), ".html")
		pageContent, _ := content.ReadFile(pagePath)

		tmpl, err := template.New(pageName).Funcs(s.funcMap).Parse(base.String() + string(pageContent))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", pageName, err)
		}
		templates[pageName] = tmpl
	}

	return templates, nil
}

// dict creates a map from key-value pairs for use in templates.
func dict(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		m[key] = values[i+1]
	}
	return m
}

func navTitle(r domain.Resource) string {
	if spec, ok := listing.SpecFor(r); ok {
		return spec.Title
	}
	return tabTitle(string(r))
}

// statusTone picks the badge colour for a status.
func statusTone(status string) string {
	switch status {
	case "approved", "active", "resolved", "succeeded":
		return "ok"
	case "pending", "submitted", "in_progress", "medium", "high":
		return "warn"
	case "rejected", "suspended", "expired", "inactive", "failed", "urgent":
		return "bad"
	}
	return "muted"
}

// PageData holds common data passed to all page templates.
type PageData struct {
	Title     string
	Active    string // Current nav item
	Flash     *FlashMessage
	Admin     string
	CSRFToken string
	Badges    domain.Badges
	Content   any
}

// FlashMessage represents a flash message.
type FlashMessage struct {
	Type    string // "success", "error", "info"
	Message string
}
