package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/api"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage/memory"
)

// testServer wraps the router around a stub console.
type testServer struct {
	handler http.Handler
	console int
}

func newTestServer(journal storage.Journal, metricsToken string) *testServer {
	ts := &testServer{}
	console := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.console++
		if r.URL.Path == "/boom" {
			panic("console failure")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	log := logrus.New()
	log.SetOutput(io.Discard)
	ts.handler = api.NewRouter(console, journal, metricsToken, log)
	return ts
}

func (ts *testServer) request(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(memory.New(), "")

	rr := ts.request(http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ok", resp["journal"])
	assert.Zero(t, ts.console)
}

type brokenJournal struct{ storage.Journal }

func (brokenJournal) CountActions(context.Context) (int, error) {
	return 0, errors.New("database is locked")
}

func TestHealthReportsBrokenJournal(t *testing.T) {
	ts := newTestServer(brokenJournal{}, "")

	rr := ts.request(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "degraded")
}

func TestMetricsToken(t *testing.T) {
	ts := newTestServer(memory.New(), "scrape-me")

	assert.Equal(t, http.StatusUnauthorized, ts.request(http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusUnauthorized, ts.request(http.MethodGet, "/metrics", "wrong").Code)

	rr := ts.request(http.MethodGet, "/metrics", "scrape-me")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestMetricsOpenWithoutToken(t *testing.T) {
	ts := newTestServer(memory.New(), "")

	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/metrics", "").Code)
}

func TestConsoleMountedAtRoot(t *testing.T) {
	ts := newTestServer(memory.New(), "")

	rr := ts.request(http.MethodGet, "/residents?tab=pending", "")

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, 1, ts.console)
}

func TestPanicsAreRecovered(t *testing.T) {
	ts := newTestServer(memory.New(), "")

	rr := ts.request(http.MethodGet, "/boom", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
