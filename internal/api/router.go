package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/api/handler"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/api/middleware"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage"
)

// NewRouter creates the top-level HTTP router: operator endpoints plus the
// admin console mounted at the root.
func NewRouter(console http.Handler, journal storage.Journal, metricsToken string, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimw.Recoverer)

	// Health check (no auth required)
	health := handler.NewHealthHandler(journal, log)
	r.Get("/health", health.Get)

	r.With(middleware.BearerToken(metricsToken)).Handle("/metrics", promhttp.Handler())

	// Mount the console (serves HTML)
	r.Mount("/", console)

	return r
}
