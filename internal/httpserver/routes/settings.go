package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/httpserver/handlers"
)

func init() { Register("settings", registerSettings) }

func registerSettings(r chi.Router, d deps.Deps) {
	r.Get("/api/settings", handlers.GetSettings(d))
	r.Get("/api/layout", handlers.GetLayout(d))

	m := r.With(d.Mutating)
	m.Put("/api/settings/background", handlers.SetBackground(d))
	m.Put("/api/settings/theme", handlers.SetTheme(d))
	m.Post("/api/layout/sections/{id}/toggle", handlers.ToggleSection(d))
	m.Post("/api/layout/collapse-all", handlers.CollapseAll(d))
	m.Post("/api/layout/expand-all", handlers.ExpandAll(d))
	m.Put("/api/layout/view-mode", handlers.SetViewMode(d))
}
