package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/haven/internal/config"
	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/store/memory"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

type testServer struct {
	t      *testing.T
	store  *memory.Store
	ws     *workspace.Workspace
	router http.Handler
}

func newTestServer(t *testing.T, opts ...func(*deps.Deps)) *testServer {
	t.Helper()
	s := memory.New()
	ws := workspace.New(context.Background(), s, logger.Nop(), config.DefaultFaviconService)

	cfg := &config.Config{RateLimitBurst: 1000, RateLimitPerMin: 1000}
	d := deps.Deps{
		Logger:    logger.Nop(),
		StartTime: time.Now(),
		Version:   "test",
		Workspace: ws,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return &testServer{t: t, store: s, ws: ws, router: NewRouter(cfg, logger.Nop(), d)}
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = ts.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"memory"`)

	rec = ts.do(http.MethodGet, "/infra", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestBookmarkLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/bookmarks", map[string]string{
		"title": "Example", "url": "https://example.com", "category": "default",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[domain.Bookmark](t, rec)
	assert.Equal(t, "https://www.google.com/s2/favicons?domain=example.com", created.Favicon)

	rec = ts.do(http.MethodGet, "/api/bookmarks?q=EXAMPLE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Bookmark](t, rec), 1)

	rec = ts.do(http.MethodPut, "/api/bookmarks/"+created.ID+"/color", map[string]string{"color": "#000000"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"textColor":"white"`)

	rec = ts.do(http.MethodPost, "/api/bookmarks/"+created.ID+"/toggle-url", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.Bookmark](t, rec).ShowFullURL)

	rec = ts.do(http.MethodDelete, "/api/bookmarks/"+created.ID, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, ts.ws.Bookmarks.Count(), "delete must wait for confirmation")

	rec = ts.do(http.MethodGet, "/api/bookmarks/pending-delete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID)

	rec = ts.do(http.MethodPost, "/api/bookmarks/pending-delete/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, ts.ws.Bookmarks.Count())

	rec = ts.do(http.MethodPost, "/api/bookmarks/pending-delete/confirm", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/bookmarks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, pending := ts.ws.Bookmarks.Pending()
	assert.False(t, pending)

	rec = ts.do(http.MethodGet, "/api/bookmarks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookmarkValidationErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "missing url", body: map[string]string{"title": "x"}, want: http.StatusBadRequest},
		{name: "unknown category", body: map[string]string{"title": "x", "url": "https://x.io", "category": "ghost"}, want: http.StatusBadRequest},
		{name: "malformed json", body: "{", want: http.StatusBadRequest},
		{name: "empty body", body: nil, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/bookmarks", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestPersistFailureIsReported(t *testing.T) {
	ts := newTestServer(t)
	ts.store.FailSets(errors.New("disk full"))

	rec := ts.do(http.MethodPost, "/api/bookmarks", map[string]string{"title": "A", "url": "https://a.io"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to persist")
	assert.Equal(t, 1, ts.ws.Bookmarks.Count(), "the change stays in memory")
}

func TestCategoryRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/categories", map[string]string{"name": "Work"})
	require.Equal(t, http.StatusCreated, rec.Code)
	work := decode[domain.Category](t, rec)
	assert.Equal(t, 1, work.Order)

	rec = ts.do(http.MethodPost, "/api/bookmarks", map[string]string{"title": "A", "url": "https://a.io", "category": work.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	b := decode[domain.Bookmark](t, rec)

	rec = ts.do(http.MethodPut, "/api/categories/order", map[string][]string{"ids": {work.ID, domain.DefaultCategoryID}})
	require.Equal(t, http.StatusOK, rec.Code)
	ordered := decode[[]domain.Category](t, rec)
	assert.Equal(t, work.ID, ordered[0].ID)
	assert.Equal(t, 0, ordered[0].Order)

	rec = ts.do(http.MethodDelete, "/api/categories/"+domain.DefaultCategoryID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/categories/"+work.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	got, _ := ts.ws.Bookmarks.Get(b.ID)
	assert.Equal(t, domain.DefaultCategoryID, got.Category)
}

func TestSettingsAndLayoutRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPut, "/api/settings/theme", map[string]string{"theme": "dark"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(http.MethodPut, "/api/settings/theme", map[string]string{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPut, "/api/settings/background", map[string]string{"color": "#ffffff"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"textColor":"black"`)

	rec = ts.do(http.MethodPost, "/api/layout/sections/work/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"expanded":false`)

	rec = ts.do(http.MethodGet, "/api/layout?sections=work,home", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sections":{"work":false,"home":true},"viewMode":"grid"}`, rec.Body.String())

	rec = ts.do(http.MethodPut, "/api/layout/view-mode", map[string]string{"viewMode": "list"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ViewList, ts.ws.Layout.ViewMode())
}

func TestBackupExportImport(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		ts.do(http.MethodPost, "/api/bookmarks", map[string]string{"title": "A", "url": "https://a.io"}).Code)

	rec := ts.do(http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bookmark-haven-backup-")
	exported := rec.Body.String()

	rec = ts.do(http.MethodPost, "/api/backup/import", `{"version":1,"data":{"bookmarks":[]}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, ts.ws.Bookmarks.Count(), "rejected import leaves data untouched")

	rec = ts.do(http.MethodPut, "/api/backup", `{"data":{"bookmarks":[],"categories":[]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, ts.ws.Bookmarks.Count())

	var body bytes.Buffer
	mp := multipart.NewWriter(&body)
	part, err := mp.CreateFormFile("file", "backup.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(exported))
	require.NoError(t, err)
	require.NoError(t, mp.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/backup/import", &body)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	upload := httptest.NewRecorder()
	ts.router.ServeHTTP(upload, req)
	require.Equal(t, http.StatusOK, upload.Code, upload.Body.String())
	assert.Equal(t, 1, ts.ws.Bookmarks.Count())
}

func TestVersionRoutes(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		ts.do(http.MethodPost, "/api/bookmarks", map[string]string{"title": "A", "url": "https://a.io"}).Code)

	rec := ts.do(http.MethodPost, "/api/versions", map[string]string{"name": "v1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	v := decode[map[string]any](t, rec)
	id := v["id"].(string)

	rec = ts.do(http.MethodPatch, "/api/versions/"+id, map[string]string{"name": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "renamed")

	rec = ts.do(http.MethodGet, "/api/versions/"+id+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{\n  \"version\": 1"))

	require.NoError(t, ts.ws.Bookmarks.Delete(context.Background(), ts.ws.Bookmarks.List()[0].ID))
	rec = ts.do(http.MethodPost, "/api/versions/"+id+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.ws.Bookmarks.Count())

	rec = ts.do(http.MethodPost, "/api/versions/missing/restore", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/versions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(http.MethodGet, "/api/versions", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHomepageSyncDisabled(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/homepage/sync", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMaintenanceRoutesRequireAllowedCIDR(t *testing.T) {
	// httptest requests come from 192.0.2.1.
	tests := []struct {
		name  string
		cidrs []string
		path  string
		want  int
	}{
		{name: "reload outside range", cidrs: []string{"10.0.0.0/8"}, path: "/api/reload", want: http.StatusForbidden},
		{name: "homepage sync outside range", cidrs: []string{"10.0.0.0/8"}, path: "/api/homepage/sync", want: http.StatusForbidden},
		{name: "reload inside range", cidrs: []string{"192.0.2.0/24"}, path: "/api/reload", want: http.StatusOK},
		{name: "homepage sync inside range", cidrs: []string{"192.0.2.0/24"}, path: "/api/homepage/sync", want: http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger := make(chan struct{}, 1)
			ts := newTestServer(t, func(d *deps.Deps) {
				d.AllowedCIDRS = tt.cidrs
				d.HomepageTrigger = trigger
			})

			rec := ts.do(http.MethodPost, tt.path, nil)
			assert.Equal(t, tt.want, rec.Code)
			if tt.path == "/api/homepage/sync" {
				assert.Equal(t, tt.want == http.StatusAccepted, len(trigger) == 1)
			}
		})
	}
}
