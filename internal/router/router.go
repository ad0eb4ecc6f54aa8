// Package router sets up the HTTP middleware chain and mounts the page API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pagesmith/internal/handlers"
	"pagesmith/internal/middleware"
)

// Options configures the middleware around the API.
type Options struct {
	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string

	// Limiter throttles the generation endpoints. Nil disables limiting.
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. RequestID runs first so
	// the logger and recoverer can report it.
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}

	var limit func(http.Handler) http.Handler
	if opts.Limiter != nil {
		limit = opts.Limiter.Middleware
	}
	api.Register(r, limit)

	return r
}
