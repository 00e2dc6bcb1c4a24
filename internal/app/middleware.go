package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/syllabussync/syllabussync/internal/config"
	"github.com/syllabussync/syllabussync/pkg/user"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-User-Id header into context for downstream services.
	// Authentication happens upstream; this service only partitions data per user.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if userId := req.Header.Get("X-User-Id"); userId != "" {
				ctx = user.WithId(ctx, userId)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
