package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Logging writes one access log entry per request. Static assets and the
// sidebar poll are logged at debug level.
func Logging(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			entry := log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": chimw.GetReqID(r.Context()),
				"htmx":       r.Header.Get("HX-Request") == "true",
			})
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				entry.Error("request")
			case isQuiet(r.URL.Path):
				entry.Debug("request")
			default:
				entry.Info("request")
			}
		})
	}
}

func isQuiet(path string) bool {
	return path == "/sidebar" || path == "/health" || strings.HasPrefix(path, "/static/")
}
