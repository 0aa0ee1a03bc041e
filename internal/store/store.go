// Package store persists named JSON collections in a key-value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/metrics"
)

// Collection keys.
const (
	KeyBookmarks        = "bookmarks"
	KeyCategories       = "categories"
	KeySettings         = "appSettings"
	KeyBackupVersions   = "backupVersions"
	KeyExpandedSections = "expandedSections"
	KeyViewMode         = "viewMode"
	KeyHomepageSynced   = "homepageSynced"
)

var (
	// ErrNotFound is returned by Get when a key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrPersist wraps every failed collection write.
	ErrPersist = errors.New("failed to persist changes")
)

// Store is a durable string-keyed blob store.
type Store interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Keys lists the collection names that have been written.
	Keys(ctx context.Context) ([]string, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Backend names the implementation ("sqlite", "redis", "memory").
	Backend() string
	Close() error
}

// Load decodes the collection stored under key. A missing key yields def
// silently and a decode failure is logged and yields def. Any other read
// error yields def with ok false, so callers holding loaded state keep it.
func Load[T any](ctx context.Context, s Store, log logger.Logger, key string, def func() T) (v T, ok bool) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return def(), true
		}
		metrics.LoadFailures.WithLabelValues(key).Inc()
		log.Error("failed to read collection",
			logger.String("key", key),
			logger.Error(err))
		return def(), false
	}

	if err := json.Unmarshal(data, &v); err != nil {
		metrics.LoadFailures.WithLabelValues(key).Inc()
		log.Error("failed to parse collection, using defaults",
			logger.String("key", key),
			logger.Error(err))
		return def(), true
	}
	return v, true
}

// Save serializes v and rewrites the whole collection under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		metrics.PersistFailures.WithLabelValues(key).Inc()
		return fmt.Errorf("%w: %s: %w", ErrPersist, key, err)
	}
	return nil
}
