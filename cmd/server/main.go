package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/api"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/auth"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/config"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage/sql"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	log := cfg.Log.NewLogger()

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("Failed to create data directory: %v", err)
			}
		}
	}

	// Initialize the action journal
	store, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	key, err := cfg.Session.GetSessionSecretBytes()
	if err != nil {
		log.Fatalf("Invalid session secret: %v", err)
	}
	if key == nil {
		log.Warn("SESSION_SECRET not set; generating a random key, sessions will not survive a restart")
		if key, err = auth.GenerateKey(); err != nil {
			log.Fatalf("Failed to generate session key: %v", err)
		}
	}
	sessions, err := auth.NewSessionManager(key, cfg.Session.Duration, cfg.Server.SecureCookies)
	if err != nil {
		log.Fatalf("Failed to initialize sessions: %v", err)
	}

	console, err := web.NewServer(web.Config{
		APIBaseURL:     cfg.API.BaseURL,
		APITimeout:     cfg.API.Timeout,
		SearchDebounce: cfg.Listing.SearchDebounce,
		SimpleDebounce: cfg.Listing.SimpleDebounce,
		PollInterval:   cfg.Sidebar.PollInterval,
		IdleTimeout:    cfg.Session.IdleTimeout,
	}, sessions, store, log)
	if err != nil {
		log.Fatalf("Failed to initialize console: %v", err)
	}
	console.StartJanitor(time.Minute)
	defer console.Close()

	// Create router
	router := api.NewRouter(console.Handler(), store, cfg.Metrics.Token, log)

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.API.Timeout + time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithField("api", cfg.API.BaseURL).Infof("Starting FB Area admin console on http://%s", cfg.Server.Addr())

	// Start server in goroutine
	errc := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		log.Errorf("Server failed: %v", err)
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
