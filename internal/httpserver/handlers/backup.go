package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/haven/internal/backup"
	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/logger"
)

const defaultMaxImportBytes = 10 << 20

// ExportBackup downloads the current state as a backup file.
func ExportBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, name, err := d.Workspace.ExportJSON()
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeAttachment(w, name, raw)
	}
}

type importResponse struct {
	Bookmarks  int  `json:"bookmarks"`
	Categories int  `json:"categories"`
	Settings   bool `json:"settings"`
}

// ImportBackup replaces all data with a backup envelope. The body is either
// the raw JSON (pasted text) or a multipart form with a "file" field.
func ImportBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := d.MaxImportBytes
		if limit <= 0 {
			limit = defaultMaxImportBytes
		}

		raw, err := readImport(w, r, limit)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		snap, err := d.Workspace.Import(r.Context(), raw)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("backup imported via api", logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, importResponse{
			Bookmarks:  len(snap.Bookmarks),
			Categories: len(snap.Categories),
			Settings:   snap.Settings != nil,
		})
	}
}

func readImport(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, limit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(body)
	}

	r.Body = body
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing file field: %w", errBadRequest, err)
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

// ─────────────────────────────────────────────────────────────────
// Saved versions
// ─────────────────────────────────────────────────────────────────

func ListVersions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versions := d.Workspace.Versions.List()
		out := make([]versionSummary, 0, len(versions))
		for _, v := range versions {
			out = append(out, newVersionSummary(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type versionRequest struct {
	Name string `json:"name"`
}

// SaveVersion snapshots the current state under a name.
func SaveVersion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req versionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		v, err := d.Workspace.SaveVersion(r.Context(), req.Name)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("backup version saved",
			logger.String("id", v.ID),
			logger.String("name", v.Name))
		writeJSON(w, http.StatusCreated, newVersionSummary(v))
	}
}

func RenameVersion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req versionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		v, err := d.Workspace.Versions.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newVersionSummary(v))
	}
}

func DeleteVersion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Workspace.Versions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RestoreVersion overwrites all data with a saved version.
func RestoreVersion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok, err := d.Workspace.RestoreVersion(r.Context(), chi.URLParam(r, "id"))
		if !ok {
			writeError(w, d.Logger, backup.ErrVersionNotFound)
			return
		}
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newVersionSummary(v))
	}
}

// DownloadVersion serves a saved version as a backup file.
func DownloadVersion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env, ok := d.Workspace.Versions.Envelope(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, d.Logger, backup.ErrVersionNotFound)
			return
		}

		raw, err := backup.Encode(env)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		at, err := time.Parse(time.RFC3339, env.Timestamp)
		if err != nil {
			at = d.Now()
		}
		writeAttachment(w, backup.FileName(at), raw)
	}
}

func writeAttachment(w http.ResponseWriter, name string, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
