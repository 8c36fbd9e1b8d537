package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	// authorized routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/images", func(r chi.Router) {
			r.Get("/", h.listImages)
			r.Post("/", h.uploadImage)

			r.Route("/{imageID}", func(r chi.Router) {
				r.Get("/", h.getImage)
				r.Patch("/", h.updateImage)
				r.Delete("/", h.deleteImage)
				r.Get("/file/{fileName}", h.getImageFile)
				r.Get("/thumbnail", h.getImageThumbnail)

				r.With(h.requireAdmin).Post("/release", h.releaseImage)
			})
		})

		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", h.listCategories)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/", h.createCategory)
				r.Delete("/{categoryID}", h.deleteCategory)
			})
		})
	})

	return router
}
