package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
)

func GetSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newSettingsView(d.Workspace.Settings.Get()))
	}
}

func SetBackground(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req colorRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		s, err := d.Workspace.Settings.SetBackgroundColor(r.Context(), req.Color)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newSettingsView(s))
	}
}

type themeRequest struct {
	Theme domain.Theme `json:"theme"`
}

func SetTheme(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req themeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		s, err := d.Workspace.Settings.SetTheme(r.Context(), req.Theme)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newSettingsView(s))
	}
}

// ─────────────────────────────────────────────────────────────────
// Layout: foldable sections and view mode
// ─────────────────────────────────────────────────────────────────

type layoutResponse struct {
	Sections map[string]bool `json:"sections"`
	ViewMode domain.ViewMode `json:"viewMode"`
}

// sectionsParam reads ?sections=a,b,c.
func sectionsParam(r *http.Request) []string {
	var out []string
	for _, s := range strings.Split(r.URL.Query().Get("sections"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GetLayout returns the fold state of the known sections plus those named
// in ?sections=, new ones reported as expanded.
func GetLayout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layout := d.Workspace.Layout
		writeJSON(w, http.StatusOK, layoutResponse{
			Sections: layout.Sections(sectionsParam(r)...),
			ViewMode: layout.ViewMode(),
		})
	}
}

type sectionResponse struct {
	ID       string `json:"id"`
	Expanded bool   `json:"expanded"`
}

func ToggleSection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		open, err := d.Workspace.Layout.ToggleSection(r.Context(), id)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, sectionResponse{ID: id, Expanded: open})
	}
}

func CollapseAll(d deps.Deps) http.HandlerFunc {
	return setAllSections(d, false)
}

func ExpandAll(d deps.Deps) http.HandlerFunc {
	return setAllSections(d, true)
}

func setAllSections(d deps.Deps, open bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layout := d.Workspace.Layout
		apply := layout.CollapseAll
		if open {
			apply = layout.ExpandAll
		}

		sections, err := apply(r.Context(), sectionsParam(r)...)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, layoutResponse{Sections: sections, ViewMode: layout.ViewMode()})
	}
}

type viewModeRequest struct {
	ViewMode domain.ViewMode `json:"viewMode"`
}

func SetViewMode(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req viewModeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		layout := d.Workspace.Layout
		if err := layout.SetViewMode(r.Context(), req.ViewMode); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, layoutResponse{Sections: layout.Sections(), ViewMode: layout.ViewMode()})
	}
}
