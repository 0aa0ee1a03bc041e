// Package backup encodes and validates backup envelopes and keeps the list
// of locally saved versions.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/haven/internal/domain"
)

// FormatVersion is written into every exported envelope.
const FormatVersion = 1

var (
	ErrEmptyInput      = errors.New("backup input is empty")
	ErrInvalidBackup   = errors.New("invalid backup format")
	ErrVersionNotFound = errors.New("backup version not found")
	ErrInvalidName     = errors.New("version name is required")
)

// Envelope is the exported backup document.
type Envelope struct {
	Version   int              `json:"version"`
	Timestamp string           `json:"timestamp"`
	Data      *domain.Snapshot `json:"data"`
}

// Export wraps snap in an envelope stamped with at.
func Export(snap domain.Snapshot, at time.Time) Envelope {
	if snap.Bookmarks == nil {
		snap.Bookmarks = []domain.Bookmark{}
	}
	if snap.Categories == nil {
		snap.Categories = []domain.Category{}
	}
	return Envelope{
		Version:   FormatVersion,
		Timestamp: domain.FormatTimestamp(at),
		Data:      &snap,
	}
}

// Encode renders the envelope as JSON indented by two spaces.
func Encode(e Envelope) ([]byte, error) {
	out, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return out, nil
}

// FileName is the suggested download name for a backup taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("bookmark-haven-backup-%s.json", t.UTC().Format("2006-01-02"))
}

// rawEnvelope keeps the collections undecoded so that missing and null
// members can be told apart from empty ones.
type rawEnvelope struct {
	Version   json.RawMessage `json:"version"`
	Timestamp string          `json:"timestamp"`
	Data      *struct {
		Bookmarks  json.RawMessage `json:"bookmarks"`
		Categories json.RawMessage `json:"categories"`
		Settings   json.RawMessage `json:"settings"`
	} `json:"data"`
}

// Parse validates raw and returns the snapshot it carries. data.bookmarks
// and data.categories are required; settings is optional. The envelope
// version is not checked.
func Parse(raw []byte) (domain.Snapshot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return domain.Snapshot{}, ErrEmptyInput
	}

	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	if env.Data == nil {
		return domain.Snapshot{}, fmt.Errorf("%w: missing data", ErrInvalidBackup)
	}
	if absent(env.Data.Bookmarks) {
		return domain.Snapshot{}, fmt.Errorf("%w: missing data.bookmarks", ErrInvalidBackup)
	}
	if absent(env.Data.Categories) {
		return domain.Snapshot{}, fmt.Errorf("%w: missing data.categories", ErrInvalidBackup)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(env.Data.Bookmarks, &snap.Bookmarks); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: data.bookmarks: %w", ErrInvalidBackup, err)
	}
	if err := json.Unmarshal(env.Data.Categories, &snap.Categories); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: data.categories: %w", ErrInvalidBackup, err)
	}
	if !absent(env.Data.Settings) {
		var settings domain.AppSettings
		if err := json.Unmarshal(env.Data.Settings, &settings); err != nil {
			return domain.Snapshot{}, fmt.Errorf("%w: data.settings: %w", ErrInvalidBackup, err)
		}
		snap.Settings = &settings
	}
	return snap, nil
}

func absent(m json.RawMessage) bool {
	return len(m) == 0 || bytes.Equal(m, []byte("null"))
}
