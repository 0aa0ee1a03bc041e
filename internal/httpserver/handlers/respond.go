package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/haven/internal/backup"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/repository"
	"github.com/MrSnakeDoc/haven/internal/store"
)

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes. Only 5xx are logged.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, backup.ErrVersionNotFound):
		return http.StatusNotFound

	case errors.Is(err, errBadRequest),
		errors.Is(err, repository.ErrInvalidBookmark),
		errors.Is(err, repository.ErrInvalidCategory),
		errors.Is(err, repository.ErrUnknownCategory),
		errors.Is(err, repository.ErrInvalidOrder),
		errors.Is(err, repository.ErrInvalidSetting),
		errors.Is(err, backup.ErrInvalidBackup),
		errors.Is(err, backup.ErrEmptyInput),
		errors.Is(err, backup.ErrInvalidName):
		return http.StatusBadRequest

	case errors.Is(err, repository.ErrDefaultCategory),
		errors.Is(err, repository.ErrNothingPending):
		return http.StatusConflict

	case errors.Is(err, store.ErrPersist):
		return http.StatusInternalServerError
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON request body of at most 1 MiB into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}
