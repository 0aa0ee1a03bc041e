package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/logger"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newCategoryViews(d.Workspace.Categories.List()))
	}
}

func CreateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		c, err := d.Workspace.Categories.Add(r.Context(), req.Name)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, newCategoryView(c))
	}
}

func RenameCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		c, err := d.Workspace.Categories.Update(r.Context(), chi.URLParam(r, "id"), req.Name)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newCategoryView(c))
	}
}

func ToggleCategoryVisibility(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := d.Workspace.Categories.ToggleVisibility(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newCategoryView(c))
	}
}

func SetCategoryColor(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req colorRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		c, err := d.Workspace.Categories.SetColor(r.Context(), chi.URLParam(r, "id"), req.Color)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newCategoryView(c))
	}
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// ReorderCategories takes every category id in its new display position.
func ReorderCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		cs, err := d.Workspace.Categories.Reorder(r.Context(), req.IDs)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newCategoryViews(cs))
	}
}

// DeleteCategory moves the category's bookmarks to the default category
// before removing it.
func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Workspace.DeleteCategory(r.Context(), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("category deleted", logger.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
