package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/haven/internal/backup"
	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/store"
	"github.com/MrSnakeDoc/haven/internal/store/memory"
	"github.com/MrSnakeDoc/haven/internal/store/sqlite"
)

const favicon = "https://icons.example/?d=%s"

func newTestWorkspace(t *testing.T) (*memory.Store, *Workspace) {
	t.Helper()
	s := memory.New()
	return s, New(context.Background(), s, logger.Nop(), favicon)
}

func seed(t *testing.T, w *Workspace) {
	t.Helper()
	ctx := context.Background()

	work, err := w.Categories.Add(ctx, "Work")
	require.NoError(t, err)
	_, err = w.Bookmarks.Add(ctx, domain.BookmarkInput{Title: "Example", URL: "https://example.com"})
	require.NoError(t, err)
	_, err = w.Bookmarks.Add(ctx, domain.BookmarkInput{Title: "Tracker", URL: "https://jira.example", Category: work.ID})
	require.NoError(t, err)
	_, err = w.Settings.SetTheme(ctx, domain.ThemeDark)
	require.NoError(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	_, src := newTestWorkspace(t)
	seed(t, src)

	raw, name, err := src.ExportJSON()
	require.NoError(t, err)
	assert.Regexp(t, `^bookmark-haven-backup-\d{4}-\d{2}-\d{2}\.json$`, name)

	_, dst := newTestWorkspace(t)
	_, err = dst.Import(context.Background(), raw)
	require.NoError(t, err)

	want, got := src.Snapshot(), dst.Snapshot()
	require.Len(t, got.Bookmarks, len(want.Bookmarks))
	for i := range want.Bookmarks {
		assert.Equal(t, want.Bookmarks[i].ID, got.Bookmarks[i].ID)
		assert.Equal(t, want.Bookmarks[i].Title, got.Bookmarks[i].Title)
		assert.Equal(t, want.Bookmarks[i].URL, got.Bookmarks[i].URL)
		assert.Equal(t, want.Bookmarks[i].Category, got.Bookmarks[i].Category)
		assert.True(t, want.Bookmarks[i].CreatedAt.Equal(got.Bookmarks[i].CreatedAt))
	}
	assert.Equal(t, want.Categories, got.Categories)
	assert.Equal(t, want.Settings, got.Settings)
}

func TestImportMissingCategoriesIsRejected(t *testing.T) {
	s, w := newTestWorkspace(t)
	seed(t, w)
	ctx := context.Background()

	storedBookmarks, _ := s.Get(ctx, store.KeyBookmarks)
	storedCategories, _ := s.Get(ctx, store.KeyCategories)
	calls := s.SetCalls()

	_, err := w.Import(ctx, []byte(`{"version":1,"timestamp":"2024-01-01T00:00:00.000Z","data":{"bookmarks":[]}}`))
	require.ErrorIs(t, err, backup.ErrInvalidBackup)

	assert.Equal(t, calls, s.SetCalls(), "rejected import must not write")
	afterBookmarks, _ := s.Get(ctx, store.KeyBookmarks)
	afterCategories, _ := s.Get(ctx, store.KeyCategories)
	assert.Equal(t, storedBookmarks, afterBookmarks)
	assert.Equal(t, storedCategories, afterCategories)
	assert.Equal(t, 2, w.Bookmarks.Count())
}

func TestImportWithoutSettingsKeepsCurrentSettings(t *testing.T) {
	_, w := newTestWorkspace(t)
	seed(t, w)

	_, err := w.Import(context.Background(), []byte(`{"data":{"bookmarks":[],"categories":[]}}`))
	require.NoError(t, err)

	assert.Equal(t, domain.ThemeDark, w.Settings.Get().Theme)
	assert.Zero(t, w.Bookmarks.Count())
	assert.Equal(t, []domain.Category{domain.DefaultCategory()}, w.Categories.List(),
		"the default category is restored when an import omits it")
}

func TestImportReplacesInsteadOfMerging(t *testing.T) {
	_, w := newTestWorkspace(t)
	seed(t, w)

	env := backup.Export(domain.Snapshot{
		Bookmarks: []domain.Bookmark{{ID: "only", Title: "Only", URL: "https://only.io", Category: "default"}},
	}, time.Now())
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	_, err = w.Import(context.Background(), raw)
	require.NoError(t, err)

	list := w.Bookmarks.List()
	require.Len(t, list, 1)
	assert.Equal(t, "only", list[0].ID)
}

func TestImportClearsPendingDelete(t *testing.T) {
	_, w := newTestWorkspace(t)
	seed(t, w)

	b := w.Bookmarks.List()[0]
	_, ok := w.Bookmarks.RequestDelete(b.ID)
	require.True(t, ok)

	raw, _, err := w.ExportJSON()
	require.NoError(t, err)
	_, err = w.Import(context.Background(), raw)
	require.NoError(t, err)

	_, pending := w.Bookmarks.Pending()
	assert.False(t, pending)
}

func TestSaveAndRestoreVersion(t *testing.T) {
	_, w := newTestWorkspace(t)
	seed(t, w)
	ctx := context.Background()

	v, err := w.SaveVersion(ctx, "before cleanup")
	require.NoError(t, err)

	for _, b := range w.Bookmarks.List() {
		require.NoError(t, w.Bookmarks.Delete(ctx, b.ID))
	}
	_, err = w.Settings.SetTheme(ctx, domain.ThemeLight)
	require.NoError(t, err)

	restored, ok, err := w.RestoreVersion(ctx, v.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "before cleanup", restored.Name)
	assert.Equal(t, 2, w.Bookmarks.Count())
	assert.Equal(t, domain.ThemeDark, w.Settings.Get().Theme)

	_, ok, err = w.RestoreVersion(ctx, "unknown")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteCategoryCascade(t *testing.T) {
	_, w := newTestWorkspace(t)
	seed(t, w)
	ctx := context.Background()

	var work domain.Category
	for _, c := range w.Categories.List() {
		if c.Name == "Work" {
			work = c
		}
	}
	require.NotEmpty(t, work.ID)

	require.NoError(t, w.DeleteCategory(ctx, work.ID))
	for _, b := range w.Bookmarks.List() {
		assert.Equal(t, domain.DefaultCategoryID, b.Category)
	}
}

func TestMergeGroups(t *testing.T) {
	_, w := newTestWorkspace(t)
	ctx := context.Background()

	groups := []Group{
		{Name: "Media", Bookmarks: []domain.Bookmark{{ID: "m1", Title: "Jellyfin", URL: "https://jf.lan"}}},
		{Name: "", Bookmarks: []domain.Bookmark{{ID: "x1", Title: "Misc", URL: "https://misc.lan"}}},
	}

	added, err := w.MergeGroups(ctx, groups)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = w.MergeGroups(ctx, groups)
	require.NoError(t, err)
	assert.Zero(t, added, "second sync should be a no-op")

	m1, ok := w.Bookmarks.Get("m1")
	require.True(t, ok)
	media, ok := w.Categories.Get(m1.Category)
	require.True(t, ok)
	assert.Equal(t, "Media", media.Name)

	x1, _ := w.Bookmarks.Get("x1")
	assert.Equal(t, domain.DefaultCategoryID, x1.Category)
}

func TestImportWriteFailureIsReported(t *testing.T) {
	s, w := newTestWorkspace(t)
	seed(t, w)

	raw, _, err := w.ExportJSON()
	require.NoError(t, err)

	s.FailSets(errors.New("quota exceeded"))
	_, err = w.Import(context.Background(), raw)
	assert.ErrorIs(t, err, store.ErrPersist)
	assert.Equal(t, 2, w.Bookmarks.Count(), "state is rehydrated from what the store kept")
}

func TestCancelledReloadKeepsStoredData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haven.db")
	s, err := sqlite.New(path)
	require.NoError(t, err)

	w := New(context.Background(), s, logger.Nop(), favicon)
	for _, title := range []string{"one", "two", "three"} {
		_, err := w.Bookmarks.Add(context.Background(), domain.BookmarkInput{Title: title, URL: "https://" + title + ".example"})
		require.NoError(t, err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	w.Reload(cancelled)
	require.Equal(t, 3, w.Bookmarks.Count())

	_, err = w.Bookmarks.Add(context.Background(), domain.BookmarkInput{Title: "four", URL: "https://four.example"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	fresh := New(context.Background(), reopened, logger.Nop(), favicon)
	assert.Equal(t, 4, fresh.Bookmarks.Count())
}

func TestReloadReadFailureKeepsState(t *testing.T) {
	s, w := newTestWorkspace(t)
	seed(t, w)
	before := w.Snapshot()

	s.FailGets(errors.New("connection reset"))
	w.Reload(context.Background())

	after := w.Snapshot()
	assert.Len(t, after.Bookmarks, len(before.Bookmarks))
	assert.Len(t, after.Categories, len(before.Categories))
	assert.Equal(t, domain.ThemeDark, after.Settings.Theme)

	s.FailGets(nil)
	_, err := w.Bookmarks.Add(context.Background(), domain.BookmarkInput{Title: "Later", URL: "https://later.example"})
	require.NoError(t, err)

	fresh := New(context.Background(), s, logger.Nop(), favicon)
	assert.Equal(t, len(before.Bookmarks)+1, fresh.Bookmarks.Count())
}

func TestImportOnCancelledContextCompletes(t *testing.T) {
	_, src := newTestWorkspace(t)
	seed(t, src)
	raw, _, err := src.ExportJSON()
	require.NoError(t, err)

	dstStore, dst := newTestWorkspace(t)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dst.Import(cancelled, raw)
	require.NoError(t, err)
	assert.Equal(t, 2, dst.Bookmarks.Count())

	fresh := New(context.Background(), dstStore, logger.Nop(), favicon)
	assert.Equal(t, 2, fresh.Bookmarks.Count())
	assert.Equal(t, domain.ThemeDark, fresh.Settings.Get().Theme)
}
