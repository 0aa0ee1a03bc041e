package homepage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

// ErrNoBookmarks is returned when a file holds no usable entry.
var ErrNoBookmarks = errors.New("no valid bookmarks found in config")

// Map converts the parsed file into groups ready to be merged. Entries
// without href are skipped. Ids are derived from the URL so that the same
// link maps to the same bookmark on every sync.
func Map(config BookmarksConfig, now time.Time) ([]workspace.Group, error) {
	groups := make([]workspace.Group, 0, len(config))
	total := 0

	for _, group := range config {
		for _, groupName := range sortedKeys(group) {
			g := workspace.Group{Name: strings.TrimSpace(groupName)}

			for _, bookmarkMap := range group[groupName] {
				for _, name := range sortedKeys(bookmarkMap) {
					entries := bookmarkMap[name]
					if len(entries) == 0 || entries[0].Href == "" {
						continue
					}
					entry := entries[0]

					title := strings.TrimSpace(name)
					if title == "" {
						title = entry.Abbr
					}

					g.Bookmarks = append(g.Bookmarks, domain.Bookmark{
						ID:          bookmarkID(entry.Href),
						CreatedAt:   now,
						Title:       title,
						URL:         entry.Href,
						Description: entry.Description,
					})
				}
			}

			if len(g.Bookmarks) > 0 {
				groups = append(groups, g)
				total += len(g.Bookmarks)
			}
		}
	}

	if total == 0 {
		return nil, ErrNoBookmarks
	}
	return groups, nil
}

// bookmarkID creates a stable ID from a URL using SHA-256.
func bookmarkID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "hp-" + hex.EncodeToString(hash[:])[:16]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
