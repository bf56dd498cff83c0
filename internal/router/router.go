package router

import (
	"net/http"

	"dscatalog/internal/handler"
	"dscatalog/internal/middleware"
	"dscatalog/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	webHandler *web.Handler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.FindAll)
			r.Post("/", productHandler.Insert)
			r.Get("/{id}", productHandler.FindByID)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.FindAll)
			r.Post("/", categoryHandler.Insert)
			r.Get("/{id}", categoryHandler.FindByID)
			r.Put("/{id}", categoryHandler.Update)
			r.Delete("/{id}", categoryHandler.Delete)
		})
	})

	// Storefront pages and static assets
	webHandler.Register(r)

	return r
}
