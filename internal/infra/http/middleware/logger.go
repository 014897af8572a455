package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Logger logs one line per request. 5xx responses log at error level.
func Logger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			fields := log.Fields{
				"method":     r.Method,
				"route":      routePattern(r),
				"path":       r.URL.Path,
				"status":     rw.statusCode,
				"duration":   time.Since(start).String(),
				"request_id": chimw.GetReqID(r.Context()),
			}
			if p, ok := PrincipalFrom(r.Context()); ok {
				fields["user_id"] = p.UserID
			}

			entry := logger.WithFields(fields)
			if rw.statusCode >= http.StatusInternalServerError {
				entry.Error("requisição http")
				return
			}
			entry.Info("requisição http")
		})
	}
}
