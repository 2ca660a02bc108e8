// Package api exposes the HTTP surface of the workout tracker: login,
// logout, and auth resolution, plus the thin CRUD handlers for workout
// completions, bell weights, and the shared activity feed.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/cduffy/ironclub/auth"
	"github.com/cduffy/ironclub/store"
)

// defaultClientIPHeader is the edge-provided connecting-IP header. Only
// trustworthy behind a proxy that strips the client's own copy.
const defaultClientIPHeader = "CF-Connecting-IP"

//go:embed openapi.yaml
var openapiSpec []byte

// API holds the dependencies needed by the REST handlers.
type API struct {
	store          store.Store
	gateway        *auth.Gateway
	limiter        *auth.RateLimiter
	audit          *auditLogger
	clientIPHeader string
}

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithClientIPHeader overrides the header consulted for the client IP used
// in rate-limit bucketing.
func WithClientIPHeader(name string) Option {
	return func(a *API) {
		a.clientIPHeader = name
	}
}

// New creates a new API instance over the given store and auth gateway.
func New(st store.Store, gateway *auth.Gateway, opts ...Option) *API {
	a := &API{
		store:          st,
		gateway:        gateway,
		limiter:        auth.NewRateLimiter(st),
		clientIPHeader: defaultClientIPHeader,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	return a
}

// Router returns a chi.Router with all API routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/redoc",
	}, nil))

	// Login runs its own, stricter rate-limit bucket inside the handler.
	r.Post("/login", a.Login)

	r.Group(func(r chi.Router) {
		r.Use(a.RateLimitMiddleware)

		r.Post("/logout", a.Logout)
		r.Get("/check-auth", a.CheckAuth)

		r.Group(func(r chi.Router) {
			r.Use(a.RequireAuth)

			r.Get("/completions", a.GetCompletions)
			r.Post("/mark-complete", a.MarkComplete)
			r.Post("/unmark", a.Unmark)
			r.Get("/bells", a.GetBells)
			r.Put("/bells", a.PutBells)
			r.Get("/activity", a.GetActivity)
		})
	})

	return r
}
