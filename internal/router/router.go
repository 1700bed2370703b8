// Package router sets up all HTTP routes and middleware chains for the
// FolioPress API. It organizes routes into public, auth, and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"foliopress/internal/handlers"
	"foliopress/internal/middleware"
	"foliopress/internal/session"
)

// loginRateLimit caps failed-or-not login attempts per client IP.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, public *handlers.Public, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Public read-only API consumed by the marketing site.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/posts", public.ListPosts)
		r.Get("/posts/{slug}", public.GetPost)
		r.Get("/companies", public.ListCompanies)
		r.Get("/companies/{slug}", public.GetCompany)
		r.Get("/insights", public.ListInsights)
		r.Get("/insights/{slug}", public.GetInsight)
		r.Get("/tags", public.ListTags)
	})

	// Session and 2FA endpoints.
	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)
	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed verification.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		r.With(middleware.RequireAuth, middleware.Require2FA).Get("/me", auth.Me)
	})

	// Authenticated + 2FA-verified admin area. Only the admin role may
	// manage content.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)
		r.Use(middleware.RequireAdmin)

		r.Get("/dashboard", admin.Dashboard)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.ListPosts)
			r.Post("/", admin.CreatePost)
			r.Get("/{id}", admin.GetPost)
			r.Put("/{id}", admin.UpdatePost)
			r.Delete("/{id}", admin.DeletePost)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", admin.ListCompanies)
			r.Post("/", admin.CreateCompany)
			r.Get("/{id}", admin.GetCompany)
			r.Put("/{id}", admin.UpdateCompany)
			r.Delete("/{id}", admin.DeleteCompany)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", admin.ListInsights)
			r.Post("/", admin.CreateInsight)
			r.Post("/bulk-delete", admin.BulkDeleteInsights)
			r.Get("/{id}", admin.GetInsight)
			r.Put("/{id}", admin.UpdateInsight)
			r.Patch("/{id}", admin.PatchInsight)
			r.Delete("/{id}", admin.DeleteInsight)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", admin.ListTags)
			r.Post("/", admin.CreateTag)
			r.Delete("/{id}", admin.DeleteTag)
		})

		r.Get("/settings", admin.GetSettings)
		r.Put("/settings", admin.PutSettings)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
