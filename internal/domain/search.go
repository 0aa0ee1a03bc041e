package domain

import (
	"sort"
	"strings"
)

// FilterBookmarks keeps bookmarks whose title, url, description or category
// contains term, case-insensitively. An empty term keeps everything.
func FilterBookmarks(bookmarks []Bookmark, term string) []Bookmark {
	search := strings.ToLower(strings.TrimSpace(term))
	out := make([]Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if search == "" || matches(b, search) {
			out = append(out, b)
		}
	}
	return out
}

func matches(b Bookmark, search string) bool {
	for _, field := range []string{b.Title, b.URL, b.Description, b.Category} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// SortBookmarks groups by category and puts the newest bookmark first
// within each category.
func SortBookmarks(bookmarks []Bookmark) {
	sort.SliceStable(bookmarks, func(i, j int) bool {
		a, b := bookmarks[i], bookmarks[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
