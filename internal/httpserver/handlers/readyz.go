package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/logger"
)

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Storage string `json:"storage"`
	Error   string `json:"error,omitempty"`
}

// Readyz answers 503 while the store cannot be reached.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := d.Workspace.Store()

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed",
				logger.String("storage", s.Backend()),
				logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Storage: s.Backend(), Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Storage: s.Backend()})
	}
}
