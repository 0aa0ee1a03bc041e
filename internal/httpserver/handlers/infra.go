package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool     `json:"ok"`
	Mode    string   `json:"mode,omitempty"`
	Keys    []string `json:"keys,omitempty"`
	Loaded  *int     `json:"loaded,omitempty"`
	Pending string   `json:"pending_delete,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra describes storage health and collection sizes.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := d.Workspace

		bookmarks := ws.Bookmarks.Count()
		categories := ws.Categories.Count()
		versions := ws.Versions.Count()

		bookmarkStatus := componentStatus{OK: true, Loaded: &bookmarks}
		if p, ok := ws.Bookmarks.Pending(); ok {
			bookmarkStatus.Pending = p.ID
		}

		homepage := componentStatus{OK: true, Mode: "disabled"}
		if d.HomepageTrigger != nil {
			homepage.Mode = "enabled"
		}

		components := map[string]componentStatus{
			"storage":    checkStorage(r.Context(), d),
			"bookmarks":  bookmarkStatus,
			"categories": {OK: categories > 0, Loaded: &categories},
			"versions":   {OK: true, Loaded: &versions},
			"homepage":   homepage,
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "ok"
}

func checkStorage(parent context.Context, d deps.Deps) componentStatus {
	s := d.Workspace.Store()

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := s.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: s.Backend(), Error: err.Error()}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		return componentStatus{OK: false, Mode: s.Backend(), Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: s.Backend(), Keys: keys}
}
