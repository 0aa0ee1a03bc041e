package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/metrics"
	"github.com/MrSnakeDoc/haven/internal/store"
)

// Layout keeps the fold state of category sections and the view mode.
// Sections never seen before are expanded.
type Layout struct {
	store store.Store
	log   logger.Logger

	mu       sync.RWMutex
	expanded map[string]bool
	view     domain.ViewMode
	loaded   bool
}

func NewLayout(ctx context.Context, s store.Store, log logger.Logger) *Layout {
	r := &Layout{
		store: s,
		log:   log.With(logger.String("collection", store.KeyExpandedSections)),
	}
	r.Reload(ctx)
	return r
}

func (r *Layout) Reload(ctx context.Context) {
	expanded, okExpanded := store.Load(ctx, r.store, r.log, store.KeyExpandedSections, func() map[string]bool {
		return map[string]bool{}
	})
	if expanded == nil {
		expanded = map[string]bool{}
	}
	view, okView := store.Load(ctx, r.store, r.log, store.KeyViewMode, func() domain.ViewMode {
		return domain.ViewGrid
	})
	if !view.Valid() {
		view = domain.ViewGrid
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if okExpanded || !r.loaded {
		r.expanded = expanded
	}
	if okView || !r.loaded {
		r.view = view
	}
	r.loaded = true
}

// Sections returns the fold state of every known section plus ids.
func (r *Layout) Sections(ids ...string) map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool, len(r.expanded)+len(ids))
	for id, open := range r.expanded {
		out[id] = open
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = true
		}
	}
	return out
}

// ToggleSection flips a section and returns its new state.
func (r *Layout) ToggleSection(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	open, ok := r.expanded[id]
	if !ok {
		open = true
	}
	r.expanded[id] = !open
	return !open, r.persistSections(ctx, "toggle_section")
}

// CollapseAll folds every known section and ids.
func (r *Layout) CollapseAll(ctx context.Context, ids ...string) (map[string]bool, error) {
	return r.setAll(ctx, false, "collapse_all", ids)
}

// ExpandAll unfolds every known section and ids.
func (r *Layout) ExpandAll(ctx context.Context, ids ...string) (map[string]bool, error) {
	return r.setAll(ctx, true, "expand_all", ids)
}

func (r *Layout) ViewMode() domain.ViewMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

func (r *Layout) SetViewMode(ctx context.Context, mode domain.ViewMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: view mode %q", ErrInvalidSetting, mode)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.view = mode
	metrics.Mutations.WithLabelValues("layout", "view_mode").Inc()
	if err := store.Save(ctx, r.store, store.KeyViewMode, r.view); err != nil {
		r.log.Error("view mode kept in memory only", logger.Error(err))
		return err
	}
	return nil
}

func (r *Layout) setAll(ctx context.Context, open bool, op string, ids []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.expanded {
		r.expanded[id] = open
	}
	for _, id := range ids {
		r.expanded[id] = open
	}

	out := make(map[string]bool, len(r.expanded))
	for id, v := range r.expanded {
		out[id] = v
	}
	return out, r.persistSections(ctx, op)
}

func (r *Layout) persistSections(ctx context.Context, op string) error {
	metrics.Mutations.WithLabelValues("layout", op).Inc()
	if err := store.Save(ctx, r.store, store.KeyExpandedSections, r.expanded); err != nil {
		r.log.Error("section state kept in memory only",
			logger.String("op", op),
			logger.Error(err))
		return err
	}
	return nil
}
