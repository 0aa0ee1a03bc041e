// Package workspace is the application context: it owns every repository
// over one store and runs the operations that span several collections.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/haven/internal/backup"
	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/metrics"
	"github.com/MrSnakeDoc/haven/internal/repository"
	"github.com/MrSnakeDoc/haven/internal/store"
)

type Workspace struct {
	Bookmarks  *repository.Bookmarks
	Categories *repository.Categories
	Settings   *repository.Settings
	Layout     *repository.Layout
	Versions   *backup.Versions

	store store.Store
	log   logger.Logger

	// mu serializes operations that rewrite several collections.
	mu  sync.Mutex
	now func() time.Time
}

// New loads every collection from s.
func New(ctx context.Context, s store.Store, log logger.Logger, faviconService string) *Workspace {
	bookmarks := repository.NewBookmarks(ctx, s, log, faviconService)
	categories := repository.NewCategories(ctx, s, log, bookmarks)
	bookmarks.UseCategories(categories)

	w := &Workspace{
		Bookmarks:  bookmarks,
		Categories: categories,
		Settings:   repository.NewSettings(ctx, s, log),
		Layout:     repository.NewLayout(ctx, s, log),
		Versions:   backup.NewVersions(ctx, s, log),
		store:      s,
		log:        log,
		now:        time.Now,
	}

	log.Info("workspace loaded",
		logger.String("backend", s.Backend()),
		logger.Int("bookmarks", bookmarks.Count()),
		logger.Int("categories", categories.Count()),
		logger.Int("versions", w.Versions.Count()))
	return w
}

func (w *Workspace) Store() store.Store { return w.store }

// Reload rehydrates every repository from the store. Cancellation of ctx
// does not interrupt it, and a collection whose read fails keeps its state.
func (w *Workspace) Reload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reload(ctx)
}

func (w *Workspace) reload(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	w.Bookmarks.Reload(ctx)
	w.Categories.Reload(ctx)
	w.Settings.Reload(ctx)
	w.Layout.Reload(ctx)
	w.Versions.Reload(ctx)
}

// Snapshot captures the three user collections.
func (w *Workspace) Snapshot() domain.Snapshot {
	settings := w.Settings.Get()
	return domain.Snapshot{
		Bookmarks:  w.Bookmarks.List(),
		Categories: w.Categories.List(),
		Settings:   &settings,
	}
}

// Export wraps the current state in a backup envelope.
func (w *Workspace) Export() backup.Envelope {
	return backup.Export(w.Snapshot(), w.now())
}

// ExportJSON renders Export and returns it with its download file name.
func (w *Workspace) ExportJSON() ([]byte, string, error) {
	at := w.now()
	out, err := backup.Encode(backup.Export(w.Snapshot(), at))
	if err != nil {
		return nil, "", err
	}
	return out, backup.FileName(at), nil
}

// Import validates raw as a backup envelope and replaces the bookmark,
// category and (when present) settings collections with its content.
// Nothing is written when validation fails.
func (w *Workspace) Import(ctx context.Context, raw []byte) (domain.Snapshot, error) {
	snap, err := backup.Parse(raw)
	if err != nil {
		metrics.Imports.WithLabelValues("import", "invalid").Inc()
		w.log.Warn("backup import rejected", logger.Error(err))
		return domain.Snapshot{}, err
	}

	ctx = context.WithoutCancel(ctx)
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := backup.WriteSnapshot(ctx, w.store, snap, false); err != nil {
		metrics.Imports.WithLabelValues("import", "error").Inc()
		w.log.Error("backup import partially written", logger.Error(err))
		w.reload(ctx)
		return snap, err
	}
	w.reload(ctx)

	metrics.Imports.WithLabelValues("import", "ok").Inc()
	w.log.Info("backup imported",
		logger.Int("bookmarks", len(snap.Bookmarks)),
		logger.Int("categories", len(snap.Categories)),
		logger.Bool("settings", snap.Settings != nil))
	return snap, nil
}

// SaveVersion stores the current state as a named version.
func (w *Workspace) SaveVersion(ctx context.Context, name string) (domain.BackupVersion, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Versions.Add(ctx, name, w.Snapshot())
}

// RestoreVersion overwrites the collections with a saved version and
// reloads. ok is false when the id is unknown.
func (w *Workspace) RestoreVersion(ctx context.Context, id string) (domain.BackupVersion, bool, error) {
	ctx = context.WithoutCancel(ctx)
	w.mu.Lock()
	defer w.mu.Unlock()

	version, ok, err := w.Versions.Restore(ctx, id)
	if !ok {
		return version, false, nil
	}
	w.reload(ctx)
	return version, true, err
}

// DeleteCategory removes a category after moving its bookmarks to the
// default category.
func (w *Workspace) DeleteCategory(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Categories.Delete(ctx, id)
}

// Group is a named set of bookmarks coming from an external source.
type Group struct {
	Name      string
	Bookmarks []domain.Bookmark
}

// MergeGroups adds bookmarks from external groups, creating a category per
// group name when needed. Bookmarks whose id already exists are skipped.
func (w *Workspace) MergeGroups(ctx context.Context, groups []Group) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	added := 0
	for _, g := range groups {
		category := domain.DefaultCategoryID
		if g.Name != "" {
			c, _, err := w.Categories.EnsureByName(ctx, g.Name)
			if c.ID == "" {
				errs = append(errs, fmt.Errorf("group %q: %w", g.Name, err))
				continue
			}
			if err != nil {
				errs = append(errs, err)
			}
			category = c.ID
		}

		incoming := make([]domain.Bookmark, 0, len(g.Bookmarks))
		for _, b := range g.Bookmarks {
			b.Category = category
			incoming = append(incoming, b)
		}
		n, err := w.Bookmarks.Merge(ctx, incoming)
		added += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return added, errors.Join(errs...)
}
