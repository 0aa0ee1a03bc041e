package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/store/memory"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

const bookmarksYAML = `---
- Media:
    - Jellyfin:
        - abbr: JF
          href: https://jellyfin.lan
- Tools:
    - Grafana:
        - abbr: GR
          href: https://grafana.lan
`

func writeBookmarks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write bookmarks file: %v", err)
	}
	return path
}

func newWorkspace() *workspace.Workspace {
	return workspace.New(context.Background(), memory.New(), logger.Nop(), "https://icons.example/?d=%s")
}

func TestHomepageSyncMergesOnce(t *testing.T) {
	ws := newWorkspace()
	hs := NewHomepageSync(writeBookmarks(t, bookmarksYAML), ws, logger.Nop(), 0, nil)

	added, err := hs.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if added != 2 {
		t.Errorf("Sync() added %d, want 2", added)
	}
	if got := ws.Categories.Count(); got != 3 {
		t.Errorf("categories = %d, want default plus Media and Tools", got)
	}

	added, err = hs.Sync(context.Background())
	if err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}
	if added != 0 {
		t.Errorf("second Sync() added %d, want 0", added)
	}
}

func TestHomepageSyncKeepsUserDeletions(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	path := writeBookmarks(t, bookmarksYAML)
	hs := NewHomepageSync(path, ws, logger.Nop(), 0, nil)

	if _, err := hs.Sync(ctx); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	deleted := ws.Bookmarks.List()[0]
	if err := ws.Bookmarks.Delete(ctx, deleted.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	added, err := hs.Sync(ctx)
	if err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}
	if added != 0 {
		t.Errorf("second Sync() added %d, want 0", added)
	}
	if _, ok := ws.Bookmarks.Get(deleted.ID); ok {
		t.Errorf("deleted bookmark %s came back", deleted.Title)
	}

	grown := bookmarksYAML + `    - Prometheus:
        - abbr: PR
          href: https://prometheus.lan
`
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatalf("Failed to rewrite bookmarks file: %v", err)
	}
	added, err = hs.Sync(ctx)
	if err != nil {
		t.Fatalf("third Sync() error = %v", err)
	}
	if added != 1 {
		t.Errorf("third Sync() added %d, want only the new entry", added)
	}
	if ws.Bookmarks.Count() != 2 {
		t.Errorf("bookmarks = %d, want 2", ws.Bookmarks.Count())
	}
}

func TestHomepageSyncMissingFile(t *testing.T) {
	hs := NewHomepageSync("/nonexistent/bookmarks.yaml", newWorkspace(), logger.Nop(), 0, nil)

	if _, err := hs.Sync(context.Background()); err == nil {
		t.Error("Sync() should fail when the file is missing")
	}
}

func TestHomepageSyncManualTrigger(t *testing.T) {
	path := writeBookmarks(t, bookmarksYAML)
	ws := newWorkspace()
	trigger := make(chan struct{}, 1)

	hs := NewHomepageSync(path, ws, logger.Nop(), 0, trigger)
	hs.Start(context.Background())
	defer hs.Stop()

	if ws.Bookmarks.Count() != 2 {
		t.Fatalf("initial sync should add 2 bookmarks, got %d", ws.Bookmarks.Count())
	}

	more := bookmarksYAML + `- Home:
    - Router:
        - abbr: RT
          href: https://router.lan
`
	if err := os.WriteFile(path, []byte(more), 0o644); err != nil {
		t.Fatalf("Failed to update bookmarks file: %v", err)
	}
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for ws.Bookmarks.Count() != 3 {
		if time.Now().After(deadline) {
			t.Fatalf("manual trigger did not sync, have %d bookmarks", ws.Bookmarks.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}

	hs.Stop()
	hs.Stop()
}
