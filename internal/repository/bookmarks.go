// Package repository holds the in-memory state of the user collections and
// writes every mutation back to the store as a full-collection rewrite.
package repository

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

// CategoryLookup reports whether a category id can be referenced by a bookmark.
type CategoryLookup interface {
	Exists(id string) bool
}

// Bookmarks manages the bookmark collection.
type Bookmarks struct {
	store   store.Store
	log     logger.Logger
	favicon string

	mu         sync.RWMutex
	items      []domain.Bookmark
	pending    string // id awaiting delete confirmation, "" when none
	loaded     bool
	categories CategoryLookup

	now func() time.Time
}

// NewBookmarks loads the bookmark collection from s. faviconService is a
// template with a single %s replaced by the bookmark hostname.
func NewBookmarks(ctx context.Context, s store.Store, log logger.Logger, faviconService string) *Bookmarks {
	r := &Bookmarks{
		store:   s,
		log:     log.With(logger.String("collection", store.KeyBookmarks)),
		favicon: faviconService,
		now:     time.Now,
	}
	r.Reload(ctx)
	return r
}

// UseCategories makes Add and Update reject category ids unknown to c.
func (r *Bookmarks) UseCategories(c CategoryLookup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = c
}

// Reload replaces the in-memory state with what is stored and drops any
// pending delete. A failed read keeps the loaded state.
func (r *Bookmarks) Reload(ctx context.Context) {
	items, ok := store.Load(ctx, r.store, r.log, store.KeyBookmarks, func() []domain.Bookmark {
		return []domain.Bookmark{}
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if !ok && r.loaded {
		return
	}
	r.items = items
	r.pending = ""
	r.loaded = true
}

// Add creates a bookmark from in. The returned bookmark is valid even when
// the error wraps ErrPersist.
func (r *Bookmarks) Add(ctx context.Context, in domain.BookmarkInput) (domain.Bookmark, error) {
	title := strings.TrimSpace(in.Title)
	url := strings.TrimSpace(in.URL)
	if title == "" || url == "" {
		return domain.Bookmark{}, fmt.Errorf("%w: title and url are required", ErrInvalidBookmark)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	category, err := r.resolveCategory(in.Category)
	if err != nil {
		return domain.Bookmark{}, err
	}

	b := domain.Bookmark{
		ID:          uuid.NewString(),
		CreatedAt:   r.now(),
		Title:       title,
		URL:         url,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Favicon:     domain.FaviconURL(r.favicon, url),
		Color:       in.Color,
	}
	r.items = append(r.items, b)

	return b, r.persist(ctx, "add")
}

// Update merges the non-nil fields of p into the bookmark. The favicon is
// derived again only when the URL changes.
func (r *Bookmarks) Update(ctx context.Context, id string, p domain.BookmarkPatch) (domain.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Bookmark{}, fmt.Errorf("bookmark %q: %w", id, ErrNotFound)
	}
	b := r.items[i]

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return domain.Bookmark{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidBookmark)
		}
		b.Title = title
	}
	if p.URL != nil {
		url := strings.TrimSpace(*p.URL)
		if url == "" {
			return domain.Bookmark{}, fmt.Errorf("%w: url cannot be empty", ErrInvalidBookmark)
		}
		if url != b.URL {
			b.URL = url
			b.Favicon = domain.FaviconURL(r.favicon, url)
		}
	}
	if p.Description != nil {
		b.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		category, err := r.resolveCategory(*p.Category)
		if err != nil {
			return domain.Bookmark{}, err
		}
		b.Category = category
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
	if p.ShowFullURL != nil {
		b.ShowFullURL = *p.ShowFullURL
	}

	r.items[i] = b
	return b, r.persist(ctx, "update")
}

// ToggleShowURL flips between hostname-only and full URL display.
func (r *Bookmarks) ToggleShowURL(ctx context.Context, id string) (domain.Bookmark, error) {
	return r.mutate(ctx, id, "toggle_url", func(b *domain.Bookmark) { b.ShowFullURL = !b.ShowFullURL })
}

// SetColor sets the colour tag. An empty color clears it.
func (r *Bookmarks) SetColor(ctx context.Context, id, color string) (domain.Bookmark, error) {
	return r.mutate(ctx, id, "color", func(b *domain.Bookmark) { b.Color = strings.TrimSpace(color) })
}

// ─────────────────────────────────────────────────────────────────
// Two-phase delete
// ─────────────────────────────────────────────────────────────────

// RequestDelete marks a bookmark as pending deletion, replacing any earlier
// request. Nothing is removed until ConfirmDelete. An absent id leaves the
// pending state untouched and reports false.
func (r *Bookmarks) RequestDelete(id string) (domain.Bookmark, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Bookmark{}, false
	}
	r.pending = id
	return r.items[i], true
}

// Pending returns the bookmark awaiting confirmation, if any.
func (r *Bookmarks) Pending() (domain.Bookmark, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.pending == "" {
		return domain.Bookmark{}, false
	}
	if i := r.indexOf(r.pending); i >= 0 {
		return r.items[i], true
	}
	return domain.Bookmark{ID: r.pending}, true
}

// ConfirmDelete removes the pending bookmark and clears the request.
// It returns the removed id, or "" when nothing was pending.
func (r *Bookmarks) ConfirmDelete(ctx context.Context) (string, error) {
	r.mu.Lock()
	id := r.pending
	r.pending = ""
	r.mu.Unlock()

	if id == "" {
		return "", nil
	}
	return id, r.Delete(ctx, id)
}

// CancelDelete drops the pending request without touching the collection.
func (r *Bookmarks) CancelDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = ""
}

// Delete removes a bookmark immediately. Deleting an absent id is a no-op.
func (r *Bookmarks) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	if r.pending == id {
		r.pending = ""
	}
	return r.persist(ctx, "delete")
}

// ─────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────

func (r *Bookmarks) Get(id string) (domain.Bookmark, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.items[i], true
	}
	return domain.Bookmark{}, false
}

// List returns a copy of the collection in insertion order.
func (r *Bookmarks) List() []domain.Bookmark {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Bookmark, len(r.items))
	copy(out, r.items)
	return out
}

// Search filters by term and sorts by category, newest first.
func (r *Bookmarks) Search(term string) []domain.Bookmark {
	out := domain.FilterBookmarks(r.List(), term)
	domain.SortBookmarks(out)
	return out
}

func (r *Bookmarks) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// ─────────────────────────────────────────────────────────────────
// Collaboration with categories and importers
// ─────────────────────────────────────────────────────────────────

// ReassignCategory moves every bookmark in category from to category to.
// It returns the number of bookmarks moved.
func (r *Bookmarks) ReassignCategory(ctx context.Context, from, to string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	moved := 0
	for i := range r.items {
		if r.items[i].Category == from {
			r.items[i].Category = to
			moved++
		}
	}
	if moved == 0 {
		return 0, nil
	}
	return moved, r.persist(ctx, "reassign")
}

// Merge adds bookmarks whose ids are not yet present. Existing entries are
// never overwritten. Missing favicons and timestamps are filled in.
func (r *Bookmarks) Merge(ctx context.Context, incoming []domain.Bookmark) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(r.items))
	for _, b := range r.items {
		seen[b.ID] = struct{}{}
	}

	added := 0
	for _, b := range incoming {
		if _, ok := seen[b.ID]; ok || b.ID == "" {
			continue
		}
		if b.Category == "" {
			b.Category = domain.DefaultCategoryID
		}
		if b.Favicon == "" {
			b.Favicon = domain.FaviconURL(r.favicon, b.URL)
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = r.now()
		}
		r.items = append(r.items, b)
		seen[b.ID] = struct{}{}
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, r.persist(ctx, "merge")
}

// ─────────────────────────────────────────────────────────────────
// internals (callers hold r.mu)
// ─────────────────────────────────────────────────────────────────

func (r *Bookmarks) mutate(ctx context.Context, id, op string, fn func(b *domain.Bookmark)) (domain.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Bookmark{}, fmt.Errorf("bookmark %q: %w", id, ErrNotFound)
	}
	fn(&r.items[i])
	return r.items[i], r.persist(ctx, op)
}

func (r *Bookmarks) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Bookmarks) resolveCategory(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == domain.DefaultCategoryID {
		return domain.DefaultCategoryID, nil
	}
	if r.categories != nil && !r.categories.Exists(id) {
		return "", fmt.Errorf("category %q: %w", id, ErrUnknownCategory)
	}
	return id, nil
}

func (r *Bookmarks) persist(ctx context.Context, op string) error {
	metrics.Mutations.WithLabelValues("bookmark", op).Inc()
	if err := store.Save(ctx, r.store, store.KeyBookmarks, r.items); err != nil {
		r.log.Error("bookmark change kept in memory only",
			logger.String("op", op),
			logger.Error(err))
		return err
	}
	return nil
}
