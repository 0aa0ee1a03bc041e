package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/logger"
)

type reloadResponse struct {
	Bookmarks  int `json:"bookmarks"`
	Categories int `json:"categories"`
	Versions   int `json:"versions"`
}

// Reload rehydrates the workspace from the store, picking up writes made by
// another process such as havenctl.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := d.Workspace
		ws.Reload(r.Context())

		d.Logger.Info("workspace reloaded via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, reloadResponse{
			Bookmarks:  ws.Bookmarks.Count(),
			Categories: ws.Categories.Count(),
			Versions:   ws.Versions.Count(),
		})
	}
}

type triggerResponse struct {
	Status string `json:"status"`
}

// HomepageSync asks the homepage sync job to run now.
func HomepageSync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.HomepageTrigger == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "homepage sync is not configured"})
			return
		}

		select {
		case d.HomepageTrigger <- struct{}{}:
			d.Logger.Info("manual homepage sync triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, triggerResponse{Status: "triggered"})
		default:
			d.Logger.Warn("homepage sync already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, triggerResponse{Status: "already pending"})
		}
	}
}
