package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/auth"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

type contextKey string

const (
	sessionContextKey   contextKey = "session"
	workspaceContextKey contextKey = "workspace"
)

// maxFormSize bounds form bodies, leaving room for a deal image.
const maxFormSize = domain.MaxDealImageSize + 1<<20

// sessionAuth is middleware that resolves the session cookie to a workspace.
func (s *Server) sessionAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r)
		if err != nil {
			s.redirectToLogin(w, r)
			return
		}

		ws, err := s.workspaces.get(sess)
		if err != nil {
			s.log.WithError(err).WithField("session", sess.ID).Info("session refused")
			s.sessions.Clear(w)
			s.redirectToLogin(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		ctx = context.WithValue(ctx, workspaceContextKey, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// csrfProtect rejects state-changing requests without the session's token.
func (s *Server) csrfProtect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := parseForm(r); err != nil {
			s.renderError(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.PostFormValue("csrf_token")
		}
		if !getSession(r.Context()).ValidCSRF(token) {
			s.renderError(w, "Invalid or missing CSRF token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormSize)
	}
	return r.ParseForm()
}

// redirectToLogin sends the browser to the login page. htmx requests get an
// HX-Redirect so the whole page navigates.
func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/login")
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// getSession retrieves the session from context.
func getSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

func getWorkspace(ctx context.Context) *Workspace {
	ws, _ := ctx.Value(workspaceContextKey).(*Workspace)
	return ws
}
