package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/httpserver/handlers"
)

func init() { Register("categories", registerCategories) }

func registerCategories(r chi.Router, d deps.Deps) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", handlers.ListCategories(d))

		r.Group(func(r chi.Router) {
			r.Use(d.Mutating)
			r.Post("/", handlers.CreateCategory(d))
			r.Put("/order", handlers.ReorderCategories(d))
			r.Patch("/{id}", handlers.RenameCategory(d))
			r.Delete("/{id}", handlers.DeleteCategory(d))
			r.Post("/{id}/toggle-visibility", handlers.ToggleCategoryVisibility(d))
			r.Put("/{id}/color", handlers.SetCategoryColor(d))
		})
	})
}
