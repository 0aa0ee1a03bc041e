package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type group struct {
	name string
	reg  Registrar
	mws  []Middleware
}

var registry []group

// Register adds a named route group, with optional middlewares applied to
// every route of the group. Call it from init.
func Register(name string, reg Registrar, mws ...Middleware) {
	registry = append(registry, group{name: name, reg: reg, mws: mws})
}

// RegisterAll mounts every registered group. Called once from server.New().
// A nil d.Mutating mounts mutating routes without host or rate checks.
func RegisterAll(r chi.Router, d deps.Deps) {
	if d.Mutating == nil {
		d.Mutating = func(next http.Handler) http.Handler { return next }
	}

	for _, g := range registry {
		sub := r
		if len(g.mws) > 0 {
			sub = r.With(g.mws...)
		}
		g.reg(sub, d)
		d.Logger.Debug("route group mounted", logger.String("group", g.name))
	}
}
