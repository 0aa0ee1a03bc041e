package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/httpserver/handlers"
)

func init() { Register("backup", registerBackup) }

func registerBackup(r chi.Router, d deps.Deps) {
	r.Get("/api/backup", handlers.ExportBackup(d))
	r.Get("/api/versions", handlers.ListVersions(d))
	r.Get("/api/versions/{id}/download", handlers.DownloadVersion(d))

	m := r.With(d.Mutating)
	m.Post("/api/backup/import", handlers.ImportBackup(d))
	m.Put("/api/backup", handlers.ImportBackup(d)) // edit-as-JSON
	m.Post("/api/versions", handlers.SaveVersion(d))
	m.Patch("/api/versions/{id}", handlers.RenameVersion(d))
	m.Delete("/api/versions/{id}", handlers.DeleteVersion(d))
	m.Post("/api/versions/{id}/restore", handlers.RestoreVersion(d))
}
