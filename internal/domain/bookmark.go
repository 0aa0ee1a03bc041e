package domain

import "time"

// DefaultCategoryID is the sentinel category every bookmark falls back to.
// It always exists and cannot be deleted.
const DefaultCategoryID = "default"

// Bookmark is a saved URL with its display metadata.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned on creation and never changes.
	ID string `json:"id"`

	// CreatedAt is stamped when the bookmark is added.
	CreatedAt time.Time `json:"createdAt"`

	// ─────────────────────────────
	// User supplied
	// ─────────────────────────────

	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`

	// Category references Category.ID, or DefaultCategoryID.
	Category string `json:"category"`

	// ─────────────────────────────
	// Derived & display
	// ─────────────────────────────

	// Favicon is derived from the URL hostname. Empty when the URL
	// cannot be parsed.
	Favicon string `json:"favicon,omitempty"`

	// ShowFullURL toggles between hostname-only and full URL display.
	ShowFullURL bool `json:"showFullUrl"`

	// Color is an optional background tag (hex).
	Color string `json:"color,omitempty"`
}

// BookmarkInput holds the fields a caller provides when adding a bookmark.
type BookmarkInput struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Color       string `json:"color,omitempty"`
}

// BookmarkPatch is a partial update. Nil fields are left untouched.
type BookmarkPatch struct {
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Color       *string `json:"color,omitempty"`
	ShowFullURL *bool   `json:"showFullUrl,omitempty"`
}
