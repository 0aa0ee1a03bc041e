package backup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/metrics"
	"github.com/MrSnakeDoc/haven/internal/store"
)

// Versions keeps named snapshots, most recent first.
type Versions struct {
	store store.Store
	log   logger.Logger

	mu     sync.RWMutex
	items  []domain.BackupVersion
	loaded bool

	now func() time.Time
}

func NewVersions(ctx context.Context, s store.Store, log logger.Logger) *Versions {
	v := &Versions{
		store: s,
		log:   log.With(logger.String("collection", store.KeyBackupVersions)),
		now:   time.Now,
	}
	v.Reload(ctx)
	return v
}

func (v *Versions) Reload(ctx context.Context) {
	items, ok := store.Load(ctx, v.store, v.log, store.KeyBackupVersions, func() []domain.BackupVersion {
		return []domain.BackupVersion{}
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	if !ok && v.loaded {
		return
	}
	v.items = items
	v.loaded = true
}

func (v *Versions) List() []domain.BackupVersion {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]domain.BackupVersion, len(v.items))
	copy(out, v.items)
	return out
}

func (v *Versions) Get(id string) (domain.BackupVersion, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if i := v.indexOf(id); i >= 0 {
		return v.items[i], true
	}
	return domain.BackupVersion{}, false
}

func (v *Versions) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// Add saves data under a new id at the head of the list. A blank name is
// replaced by one derived from the timestamp.
func (v *Versions) Add(ctx context.Context, name string, data domain.Snapshot) (domain.BackupVersion, error) {
	at := v.now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Backup " + at.UTC().Format("2006-01-02 15:04")
	}

	version := domain.BackupVersion{
		ID:        uuid.NewString(),
		Name:      name,
		Timestamp: domain.FormatTimestamp(at),
		Data:      data,
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = append([]domain.BackupVersion{version}, v.items...)
	return version, v.persist(ctx, "add")
}

// Rename changes a version's name, the only mutable field.
func (v *Versions) Rename(ctx context.Context, id, name string) (domain.BackupVersion, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.BackupVersion{}, ErrInvalidName
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return domain.BackupVersion{}, fmt.Errorf("%q: %w", id, ErrVersionNotFound)
	}
	v.items[i].Name = name
	return v.items[i], v.persist(ctx, "rename")
}

func (v *Versions) Delete(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%q: %w", id, ErrVersionNotFound)
	}
	v.items = append(v.items[:i], v.items[i+1:]...)
	return v.persist(ctx, "delete")
}

// Restore overwrites the bookmark, category and settings collections with
// the version's snapshot. ok is false when no such version exists; that is
// not an error. Callers reload their in-memory state afterwards.
func (v *Versions) Restore(ctx context.Context, id string) (version domain.BackupVersion, ok bool, err error) {
	version, ok = v.Get(id)
	if !ok {
		return domain.BackupVersion{}, false, nil
	}

	if err := WriteSnapshot(ctx, v.store, version.Data, true); err != nil {
		metrics.Imports.WithLabelValues("version", "error").Inc()
		return version, true, err
	}
	metrics.Imports.WithLabelValues("version", "ok").Inc()
	v.log.Info("backup version restored",
		logger.String("id", version.ID),
		logger.String("name", version.Name))
	return version, true, nil
}

// Envelope returns the version as a downloadable backup envelope.
func (v *Versions) Envelope(id string) (Envelope, bool) {
	version, ok := v.Get(id)
	if !ok {
		return Envelope{}, false
	}
	at, err := time.Parse(time.RFC3339, version.Timestamp)
	if err != nil {
		at = v.now()
	}
	return Export(version.Data, at), true
}

// WriteSnapshot overwrites the stored collections with snap. Settings are
// written when present; when absent and resetSettings is set, defaults are
// written instead.
func WriteSnapshot(ctx context.Context, s store.Store, snap domain.Snapshot, resetSettings bool) error {
	bookmarks := snap.Bookmarks
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	if err := store.Save(ctx, s, store.KeyBookmarks, bookmarks); err != nil {
		return err
	}
	if err := store.Save(ctx, s, store.KeyCategories, domain.NormalizeCategories(snap.Categories)); err != nil {
		return err
	}

	switch {
	case snap.Settings != nil:
		return store.Save(ctx, s, store.KeySettings, *snap.Settings)
	case resetSettings:
		return store.Save(ctx, s, store.KeySettings, domain.DefaultSettings())
	}
	return nil
}

func (v *Versions) indexOf(id string) int {
	for i := range v.items {
		if v.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (v *Versions) persist(ctx context.Context, op string) error {
	metrics.Mutations.WithLabelValues("version", op).Inc()
	if err := store.Save(ctx, v.store, store.KeyBackupVersions, v.items); err != nil {
		v.log.Error("version change kept in memory only",
			logger.String("op", op),
			logger.Error(err))
		return err
	}
	return nil
}
