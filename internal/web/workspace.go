package web

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/auth"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/service"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
)

// Workspace is everything one admin session owns: its credential, API client,
// list controllers, sidebar counter and dispatcher.
type Workspace struct {
	ID         string
	Admin      string
	creds      *auth.TokenStore
	client     *societyapi.Client
	lists      map[domain.Resource]lister
	counter    *service.Counter
	dispatcher *service.Dispatcher
	expiresAt  time.Time
	log        logrus.FieldLogger

	mu       sync.Mutex
	lastSeen time.Time
	flash    *FlashMessage
}

func (w *Workspace) list(r domain.Resource) (lister, bool) {
	l, ok := w.lists[r]
	return l, ok
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// setFlash stores a message for the next page render.
func (w *Workspace) setFlash(kind, message string) {
	w.mu.Lock()
	w.flash = &FlashMessage{Type: kind, Message: message}
	w.mu.Unlock()
}

func (w *Workspace) popFlash() *FlashMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	f := w.flash
	w.flash = nil
	return f
}

func (w *Workspace) close() {
	w.counter.Stop()
	for _, l := range w.lists {
		l.Close()
	}
	w.log.Debug("workspace closed")
}

var errSessionRevoked = errors.New("session revoked")

// workspaceBuilder creates the workspace for a session.
type workspaceBuilder func(sess *auth.Session) (*Workspace, error)

// workspaces maps session ids to live workspaces. A workspace whose
// credential is rejected by the API is dropped and its session revoked.
type workspaces struct {
	build workspaceBuilder
	idle  time.Duration
	now   func() time.Time
	log   logrus.FieldLogger

	mu      sync.Mutex
	byID    map[string]*Workspace
	revoked map[string]time.Time
}

func newWorkspaces(build workspaceBuilder, idle time.Duration, log logrus.FieldLogger) *workspaces {
	return &workspaces{
		build:   build,
		idle:    idle,
		now:     time.Now,
		log:     log,
		byID:    make(map[string]*Workspace),
		revoked: make(map[string]time.Time),
	}
}

// get returns the session's workspace, building it on first use (for example
// after a restart, from the token in the cookie).
func (ws *workspaces) get(sess *auth.Session) (*Workspace, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if _, ok := ws.revoked[sess.ID]; ok {
		return nil, errSessionRevoked
	}
	if w, ok := ws.byID[sess.ID]; ok {
		w.touch(ws.now())
		return w, nil
	}

	w, err := ws.build(sess)
	if err != nil {
		return nil, err
	}
	w.touch(ws.now())
	w.creds.OnInvalidated(func() { ws.revoke(w.ID) })
	w.counter.Start()
	ws.byID[w.ID] = w
	ws.log.WithFields(logrus.Fields{"session": w.ID, "admin": w.Admin}).Info("workspace opened")
	return w, nil
}

// revoke drops the workspace and refuses its session from now on.
func (ws *workspaces) revoke(id string) {
	ws.mu.Lock()
	w, ok := ws.byID[id]
	delete(ws.byID, id)
	expires := ws.now().Add(24 * time.Hour)
	if ok {
		expires = w.expiresAt
	}
	ws.revoked[id] = expires
	ws.mu.Unlock()

	ws.log.WithField("session", id).Warn("credential rejected; workspace dropped")
	if ok {
		// Revocation can fire from inside one of the workspace's own fetches.
		go w.close()
	}
}

// drop closes the workspace on logout.
func (ws *workspaces) drop(id string) {
	ws.mu.Lock()
	w, ok := ws.byID[id]
	delete(ws.byID, id)
	ws.mu.Unlock()
	if ok {
		w.close()
	}
}

// evictIdle closes workspaces unused for longer than the idle timeout and
// forgets expired revocations. Evicted sessions are rebuilt on their next
// request.
func (ws *workspaces) evictIdle() int {
	now := ws.now()
	var idle []*Workspace

	ws.mu.Lock()
	for id, w := range ws.byID {
		if now.Sub(w.idleSince()) > ws.idle {
			idle = append(idle, w)
			delete(ws.byID, id)
		}
	}
	for id, exp := range ws.revoked {
		if now.After(exp) {
			delete(ws.revoked, id)
		}
	}
	ws.mu.Unlock()

	for _, w := range idle {
		ws.log.WithField("session", w.ID).Info("workspace evicted after idle timeout")
		w.close()
	}
	return len(idle)
}

func (ws *workspaces) len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.byID)
}

func (ws *workspaces) closeAll() {
	ws.mu.Lock()
	all := ws.byID
	ws.byID = make(map[string]*Workspace)
	ws.mu.Unlock()
	for _, w := range all {
		w.close()
	}
}
