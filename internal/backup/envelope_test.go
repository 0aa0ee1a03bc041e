package backup

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/haven/internal/domain"
)

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Bookmarks: []domain.Bookmark{{
			ID:        "b1",
			CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Title:     "Example",
			URL:       "https://example.com",
			Category:  "default",
		}},
		Categories: []domain.Category{domain.DefaultCategory(), {ID: "c1", Name: "Work", Order: 1, Visible: true}},
		Settings:   &domain.AppSettings{Theme: domain.ThemeDark},
	}
}

func TestExportEncodeParseRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)
	raw, err := Encode(Export(sampleSnapshot(), at))
	require.NoError(t, err)

	assert.Contains(t, string(raw), "\n  \"version\": 1,")
	assert.Contains(t, string(raw), `"timestamp": "2024-03-02T08:30:00.000Z"`)

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}

func TestExportNeverEmitsNullCollections(t *testing.T) {
	raw, err := Encode(Export(domain.Snapshot{}, time.Now()))
	require.NoError(t, err)

	_, err = Parse(raw)
	require.NoError(t, err, "an export of empty state must be importable")
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "   \n", want: ErrEmptyInput},
		{name: "malformed json", input: `{"version":1,`, want: ErrInvalidBackup},
		{name: "no data", input: `{"version":1}`, want: ErrInvalidBackup},
		{name: "missing categories", input: `{"version":1,"data":{"bookmarks":[]}}`, want: ErrInvalidBackup},
		{name: "null bookmarks", input: `{"data":{"bookmarks":null,"categories":[]}}`, want: ErrInvalidBackup},
		{name: "bookmarks not an array", input: `{"data":{"bookmarks":{},"categories":[]}}`, want: ErrInvalidBackup},
		{name: "bad settings", input: `{"data":{"bookmarks":[],"categories":[],"settings":"dark"}}`, want: ErrInvalidBackup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseAcceptsMinimalEnvelope(t *testing.T) {
	snap, err := Parse([]byte(`{"data":{"bookmarks":[],"categories":[{"id":"x","name":"X"}]}}`))
	require.NoError(t, err)

	assert.Empty(t, snap.Bookmarks)
	assert.Nil(t, snap.Settings)
	require.Len(t, snap.Categories, 1)
	assert.True(t, snap.Categories[0].Visible, "missing visible defaults to true")
}

func TestFileName(t *testing.T) {
	name := FileName(time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "bookmark-haven-backup-2025-01-09.json", name)
	assert.True(t, strings.HasSuffix(name, ".json"))
}
