package wire

import (
	"user-service/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser mounts the public user API under /api/v1/users.
func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Get("/", userHandler.ListActive)
		r.Get("/stats", userHandler.Stats)
		r.Get("/health", userHandler.Health)
		r.Get("/username/{username}", userHandler.GetByUsername)
		r.Get("/{id}", userHandler.GetByID)
		r.Put("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Deactivate)
	})
}
