package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/postdesk/internal/api/middleware"
	"github.com/phrazzld/postdesk/internal/domain"
)

// RegisterPostRoutes mounts the posts resource on r. Reads are public; every
// mutating route requires the post management capability.
func RegisterPostRoutes(r chi.Router, h *PostHandler, authMiddleware *middleware.AuthMiddleware) {
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/{id}", h.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireCapability(domain.CapabilityManagePosts))
			r.Post("/", h.CreatePost)
			r.Patch("/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
		})
	})
}
