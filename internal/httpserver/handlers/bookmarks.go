package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/repository"
)

// ListBookmarks returns bookmarks matching ?q=, sorted by category and
// newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, newBookmarkViews(d.Workspace.Bookmarks.Search(query)))
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := d.Workspace.Bookmarks.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, d.Logger, repository.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, newBookmarkView(b))
	}
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.BookmarkInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		b, err := d.Workspace.Bookmarks.Add(r.Context(), in)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("bookmark added",
			logger.String("id", b.ID),
			logger.String("url", b.URL))
		writeJSON(w, http.StatusCreated, newBookmarkView(b))
	}
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.BookmarkPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		b, err := d.Workspace.Bookmarks.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newBookmarkView(b))
	}
}

func ToggleBookmarkURL(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Workspace.Bookmarks.ToggleShowURL(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newBookmarkView(b))
	}
}

type colorRequest struct {
	Color string `json:"color"`
}

func SetBookmarkColor(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req colorRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		b, err := d.Workspace.Bookmarks.SetColor(r.Context(), chi.URLParam(r, "id"), req.Color)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newBookmarkView(b))
	}
}

// ─────────────────────────────────────────────────────────────────
// Two-phase delete
// ─────────────────────────────────────────────────────────────────

type pendingResponse struct {
	Pending bookmarkView `json:"pending"`
}

// RequestBookmarkDelete marks the bookmark for deletion and answers 202.
// The bookmark stays until the pending delete is confirmed. An unknown id
// answers 204 since there is nothing left to delete.
func RequestBookmarkDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := d.Workspace.Bookmarks.RequestDelete(chi.URLParam(r, "id"))
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusAccepted, pendingResponse{Pending: newBookmarkView(b)})
	}
}

func PendingBookmarkDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := d.Workspace.Bookmarks.Pending()
		if !ok {
			writeError(w, d.Logger, repository.ErrNothingPending)
			return
		}
		writeJSON(w, http.StatusOK, pendingResponse{Pending: newBookmarkView(b)})
	}
}

type deletedResponse struct {
	Deleted string `json:"deleted"`
}

func ConfirmBookmarkDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := d.Workspace.Bookmarks.ConfirmDelete(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if id == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		d.Logger.Info("bookmark deleted", logger.String("id", id))
		writeJSON(w, http.StatusOK, deletedResponse{Deleted: id})
	}
}

func CancelBookmarkDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Workspace.Bookmarks.CancelDelete()
		w.WriteHeader(http.StatusNoContent)
	}
}
