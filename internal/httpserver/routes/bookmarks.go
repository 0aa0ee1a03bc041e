package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/httpserver/handlers"
)

func init() { Register("bookmarks", registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Get("/pending-delete", handlers.PendingBookmarkDelete(d))
		r.Get("/{id}", handlers.GetBookmark(d))

		r.Group(func(r chi.Router) {
			r.Use(d.Mutating)
			r.Post("/", handlers.CreateBookmark(d))
			r.Patch("/{id}", handlers.UpdateBookmark(d))
			r.Post("/{id}/toggle-url", handlers.ToggleBookmarkURL(d))
			r.Put("/{id}/color", handlers.SetBookmarkColor(d))
			r.Delete("/{id}", handlers.RequestBookmarkDelete(d))
			r.Post("/pending-delete/confirm", handlers.ConfirmBookmarkDelete(d))
			r.Delete("/pending-delete", handlers.CancelBookmarkDelete(d))
		})
	})
}
