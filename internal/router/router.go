// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Routes are organized into public, auth, and admin groups
// with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
	"inkwell/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. rateLimiter guards the credential endpoints.
func New(
	sessionStore *session.Store,
	rateLimiter *middleware.RateLimiter,
	auth *handlers.Auth,
	public *handlers.Public,
	admin *handlers.Admin,
	media *handlers.Media,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Reader endpoints. Anonymous works; a session personalizes
		// the like flags.
		r.Get("/posts", public.Feed)
		r.Get("/posts/{slug}", public.Post)
		r.Post("/posts/{id}/like", public.ToggleLike)

		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints are rate limited per IP.
			r.Group(func(r chi.Router) {
				r.Use(rateLimiter.Middleware)
				r.Post("/signup", auth.Signup)
				r.Post("/login", auth.Login)
			})

			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)

			// 2FA — requires auth but NOT completed verification.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", auth.TwoFASetup)
				r.Post("/2fa/verify", auth.TwoFAVerify)
			})
		})

		// Dashboard endpoints — authenticated, 2FA-verified admins only.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.ListPosts)
				r.Post("/", admin.CreatePost)
				r.Get("/{id}", admin.GetPost)
				r.Put("/{id}", admin.UpdatePost)
				r.Post("/{id}/publish", admin.PublishPost)
				r.Post("/{id}/unpublish", admin.UnpublishPost)
				r.Delete("/{id}", admin.DeletePost)
			})

			r.Get("/stats", admin.Stats)
			r.Post("/media", media.UploadCover)
		})
	})

	// Everything else serves the embedded SPA shell. The client router
	// handles the paths, so unknown routes get index.html.
	r.NotFound(web.SPAHandler())

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
