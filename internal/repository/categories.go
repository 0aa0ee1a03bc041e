package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/metrics"
	"github.com/MrSnakeDoc/haven/internal/store"
)

// Reassigner moves bookmarks out of a category that is about to disappear.
type Reassigner interface {
	ReassignCategory(ctx context.Context, from, to string) (int, error)
}

// Categories manages the category collection. The default category is
// always present.
type Categories struct {
	store     store.Store
	log       logger.Logger
	bookmarks Reassigner

	mu     sync.RWMutex
	items  []domain.Category // sorted by Order
	loaded bool
}

func NewCategories(ctx context.Context, s store.Store, log logger.Logger, bookmarks Reassigner) *Categories {
	r := &Categories{
		store:     s,
		log:       log.With(logger.String("collection", store.KeyCategories)),
		bookmarks: bookmarks,
	}
	r.Reload(ctx)
	return r
}

// Reload replaces the in-memory state with the stored collection,
// normalized so that every category has an order and the default exists.
// A failed read keeps the loaded state.
func (r *Categories) Reload(ctx context.Context) {
	items, ok := store.Load(ctx, r.store, r.log, store.KeyCategories, func() []domain.Category {
		return []domain.Category{domain.DefaultCategory()}
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if !ok && r.loaded {
		return
	}
	r.items = domain.NormalizeCategories(items)
	r.loaded = true
}

// Add appends a visible category after the current last one.
func (r *Categories) Add(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := domain.Category{
		ID:      uuid.NewString(),
		Name:    name,
		Order:   r.nextOrder(),
		Visible: true,
	}
	r.items = append(r.items, c)
	return c, r.persist(ctx, "add")
}

// EnsureByName returns the category named name (case-insensitive), creating
// it when missing. created reports whether a new category was added.
func (r *Categories) EnsureByName(ctx context.Context, name string) (c domain.Category, created bool, err error) {
	r.mu.RLock()
	for _, existing := range r.items {
		if strings.EqualFold(existing.Name, strings.TrimSpace(name)) {
			r.mu.RUnlock()
			return existing, false, nil
		}
	}
	r.mu.RUnlock()

	c, err = r.Add(ctx, name)
	if c.ID == "" {
		return c, false, err
	}
	return c, true, err
}

// Update renames a category.
func (r *Categories) Update(ctx context.Context, id, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	return r.mutate(ctx, id, "update", func(c *domain.Category) { c.Name = name })
}

func (r *Categories) ToggleVisibility(ctx context.Context, id string) (domain.Category, error) {
	return r.mutate(ctx, id, "toggle_visibility", func(c *domain.Category) { c.Visible = !c.Visible })
}

// SetColor sets the colour tag. An empty color clears it.
func (r *Categories) SetColor(ctx context.Context, id, color string) (domain.Category, error) {
	return r.mutate(ctx, id, "color", func(c *domain.Category) { c.Color = strings.TrimSpace(color) })
}

// Reorder takes the complete list of category ids in their new display
// sequence and stores each position as the category order.
func (r *Categories) Reorder(ctx context.Context, ids []string) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) != len(r.items) {
		return nil, fmt.Errorf("%w: got %d ids for %d categories", ErrInvalidOrder, len(ids), len(r.items))
	}

	byID := make(map[string]domain.Category, len(r.items))
	for _, c := range r.items {
		byID[c.ID] = c
	}

	reordered := make([]domain.Category, 0, len(ids))
	for pos, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown or repeated id %q", ErrInvalidOrder, id)
		}
		delete(byID, id)
		c.Order = pos
		reordered = append(reordered, c)
	}

	r.items = reordered
	return r.snapshot(), r.persist(ctx, "reorder")
}

// Delete moves the category's bookmarks to the default category, then
// removes the category. The category leaves memory first so no bookmark can
// join it while its bookmarks are moved. The two writes are not atomic.
func (r *Categories) Delete(ctx context.Context, id string) error {
	if id == domain.DefaultCategoryID {
		return ErrDefaultCategory
	}

	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	removed := r.items[i]
	r.items = append(r.items[:i:i], r.items[i+1:]...)
	r.mu.Unlock()

	if r.bookmarks != nil {
		moved, err := r.bookmarks.ReassignCategory(ctx, id, domain.DefaultCategoryID)
		if err != nil {
			r.restore(removed)
			return fmt.Errorf("reassign bookmarks of %q: %w", id, err)
		}
		if moved > 0 {
			r.log.Info("bookmarks moved to default category",
				logger.String("category", id),
				logger.Int("count", moved))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persist(ctx, "delete")
}

// restore puts back a category removed by a failed Delete.
func (r *Categories) restore(c domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(c.ID) >= 0 {
		return
	}
	r.items = domain.NormalizeCategories(append(r.items, c))
}

// ─────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────

// Exists reports whether id names a category. The default always exists.
func (r *Categories) Exists(id string) bool {
	if id == domain.DefaultCategoryID {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0
}

func (r *Categories) Get(id string) (domain.Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.items[i], true
	}
	return domain.Category{}, false
}

// List returns the categories sorted by order.
func (r *Categories) List() []domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

func (r *Categories) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// ─────────────────────────────────────────────────────────────────
// internals (callers hold r.mu)
// ─────────────────────────────────────────────────────────────────

func (r *Categories) mutate(ctx context.Context, id, op string, fn func(c *domain.Category)) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Category{}, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	fn(&r.items[i])
	return r.items[i], r.persist(ctx, op)
}

func (r *Categories) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Categories) nextOrder() int {
	next := 0
	for _, c := range r.items {
		if c.Order >= next {
			next = c.Order + 1
		}
	}
	return next
}

func (r *Categories) snapshot() []domain.Category {
	out := make([]domain.Category, len(r.items))
	copy(out, r.items)
	domain.SortCategories(out)
	return out
}

func (r *Categories) persist(ctx context.Context, op string) error {
	metrics.Mutations.WithLabelValues("category", op).Inc()
	if err := store.Save(ctx, r.store, store.KeyCategories, r.items); err != nil {
		r.log.Error("category change kept in memory only",
			logger.String("op", op),
			logger.Error(err))
		return err
	}
	return nil
}
