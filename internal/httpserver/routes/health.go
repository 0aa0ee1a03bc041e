package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/haven/internal/httpserver/mw"
	"github.com/MrSnakeDoc/haven/internal/metrics"
)

func init() { Register("health", registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	internal := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	internal.Get("/readyz", handlers.Readyz(d))
	internal.Get("/infra", handlers.Infra(d))
	internal.Method("GET", "/metrics", metrics.Handler())

	maintenance := internal.With(d.Mutating)
	maintenance.Post("/api/reload", handlers.Reload(d))
	maintenance.Post("/api/homepage/sync", handlers.HomepageSync(d))
}
