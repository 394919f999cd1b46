// Package http exposes the authentication service as a JSON REST API.
package http

import (
	"strings"

	"github.com/dmitrijs2005/hrportal/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions carries the settings NewRouter needs from config.
type RouterOptions struct {
	APIPrefix      string
	TrustedOrigins []string
}

// NewRouter wires middleware and routes:
//
//	GET  /health
//	GET  {prefix}/
//	POST {prefix}/auth/register
//	POST {prefix}/auth/login
//	GET  {prefix}/auth/me       (bearer)
//	POST {prefix}/auth/refresh  (bearer)
func NewRouter(opts RouterOptions, h *Handler, svc UserService, logger logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	if len(opts.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger.With("module", "http_access")))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	api := func(r chi.Router) {
		r.Get("/", h.Root)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(svc))
				r.Get("/me", h.Me)
				r.Post("/refresh", h.Refresh)
			})
		})
	}

	if prefix := strings.Trim(opts.APIPrefix, "/"); prefix != "" {
		r.Route("/"+prefix, api)
	} else {
		api(r)
	}

	return r
}
