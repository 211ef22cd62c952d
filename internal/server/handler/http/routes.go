package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/packlist/packlist/internal/middleware"
	"github.com/packlist/packlist/internal/session"
)

// NewRouter constructs the HTTP handler serving the packing list API.
//
// Routes:
//
//	POST   /api/register                → AuthHandler.Register
//	POST   /api/login                   → AuthHandler.Login
//	POST   /api/logout                  → AuthHandler.Logout      (auth)
//	GET    /api/me                      → AuthHandler.Me          (auth)
//	GET    /api/csrf                    → AuthHandler.CSRFToken   (auth)
//	GET    /api/categories              → CategoryHandler.Index   (auth)
//	GET    /api/lists                   → ListHandler.Index       (auth)
//	POST   /api/lists                   → ListHandler.Create      (auth+csrf)
//	GET    /api/lists/{listID}          → ListHandler.Get         (auth)
//	PUT    /api/lists/{listID}          → ListHandler.Update      (auth+csrf)
//	DELETE /api/lists/{listID}          → ListHandler.Delete      (auth+csrf)
//	GET    /api/lists/{listID}/items    → ItemHandler.ListForList (auth)
//	POST   /api/lists/{listID}/items    → ItemHandler.Add         (auth+csrf)
//	GET    /api/lists/{listID}/stats    → ItemHandler.Stats       (auth)
//	PUT    /api/items/{itemID}          → ItemHandler.Update      (auth+csrf)
//	POST   /api/items/{itemID}/toggle   → ItemHandler.TogglePacked (auth+csrf)
//	DELETE /api/items/{itemID}          → ItemHandler.Delete      (auth+csrf)
//
// Middleware chain: panic recovery, request logging, JSON content-type
// enforcement, then cookie-session authentication and, on the mutating
// list/item routes, CSRF verification.
func NewRouter(
	authHandler *AuthHandler,
	listHandler *ListHandler,
	itemHandler *ItemHandler,
	categoryHandler *CategoryHandler,
	sessions *session.Manager,
	cookieName string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected group: requires a valid session cookie
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessions, cookieName))

			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
			r.Get("/csrf", authHandler.CSRFToken)
			r.Get("/categories", categoryHandler.Index)

			// Domain mutations additionally require the CSRF token
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCSRF(sessions))

				r.Route("/lists", func(r chi.Router) {
					r.Get("/", listHandler.Index)
					r.Post("/", listHandler.Create)
					r.Route("/{listID}", func(r chi.Router) {
						r.Get("/", listHandler.Get)
						r.Put("/", listHandler.Update)
						r.Delete("/", listHandler.Delete)
						r.Get("/items", itemHandler.ListForList)
						r.Post("/items", itemHandler.Add)
						r.Get("/stats", itemHandler.Stats)
					})
				})

				r.Route("/items/{itemID}", func(r chi.Router) {
					r.Put("/", itemHandler.Update)
					r.Post("/toggle", itemHandler.TogglePacked)
					r.Delete("/", itemHandler.Delete)
				})
			})
		})
	})

	return r
}
