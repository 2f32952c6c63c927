// Package router sets up all HTTP routes and middleware chains for the
// storefront platform. It organizes routes into the authenticated JSON API
// and the public storefront group with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth      *handlers.Auth
	Shops     *handlers.Shops
	Templates *handlers.Templates
	Sections  *handlers.Sections
	Blocks    *handlers.Blocks
	Assets    *handlers.Assets
	Public    *handlers.Public
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. secureCookies marks the CSRF token cookie
// HTTPS-only.
func New(sessionStore *session.Store, secureCookies bool, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Brute-force protection on credential endpoints; a looser per-IP cap
	// on the editor API absorbs runaway dashboard clients.
	authLimiter := middleware.NewAuthLimiter()
	apiLimiter := middleware.NewAPILimiter()

	// JSON API — CSRF double-submit on every mutation.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			// 2FA endpoints require a session but not a completed second factor.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", h.Auth.Me)
				r.Get("/2fa/setup", h.Auth.TwoFASetup)
				r.With(authLimiter.Middleware).Post("/2fa/verify", h.Auth.TwoFAVerify)
			})
		})

		// Authenticated + 2FA-verified merchant area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(apiLimiter.Middleware)

			// Platform administration.
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/shops", h.Shops.AdminList)
				r.Put("/shops/{shopId}/status", h.Shops.AdminSetStatus)
			})

			r.Route("/shops", func(r chi.Router) {
				r.Get("/", h.Shops.List)
				r.Post("/", h.Shops.Create)

				r.Route("/{subdomain}", func(r chi.Router) {
					r.Get("/", h.Shops.Get)
					r.Put("/", h.Shops.Update)
					r.Delete("/", h.Shops.Delete)

					r.Route("/templates", func(r chi.Router) {
						r.Get("/", h.Templates.List)
						r.Post("/", h.Templates.Create)

						r.Route("/{templateId}", func(r chi.Router) {
							r.Get("/", h.Templates.Get)
							r.Put("/", h.Templates.Rename)
							r.Post("/default", h.Templates.SetDefault)
							r.Delete("/", h.Templates.Delete)

							r.Route("/sections", func(r chi.Router) {
								r.Get("/", h.Sections.List)
								r.Post("/", h.Sections.Create)
								r.Post("/reorder", h.Sections.Reorder)

								r.Route("/{sectionId}", func(r chi.Router) {
									r.Put("/", h.Sections.Update)
									r.Delete("/", h.Sections.Delete)

									r.Route("/blocks", func(r chi.Router) {
										r.Post("/", h.Blocks.Create)
										r.Put("/{blockId}", h.Blocks.Update)
										r.Delete("/{blockId}", h.Blocks.Delete)
									})
								})
							})
						})
					})

					r.Route("/assets", func(r chi.Router) {
						r.Get("/", h.Assets.List)
						r.Post("/", h.Assets.Upload)
						r.Delete("/{assetId}", h.Assets.Delete)
					})
				})
			})
		})
	})

	// Public storefront — read-only, no session required.
	r.Get("/storefront/{subdomain}/pages/{templateType}", h.Public.Page)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
