package handlers

import "github.com/MrSnakeDoc/haven/internal/domain"

// bookmarkView adds the text colour that stays readable on the bookmark tag.
type bookmarkView struct {
	domain.Bookmark
	TextColor string `json:"textColor,omitempty"`
}

func newBookmarkView(b domain.Bookmark) bookmarkView {
	v := bookmarkView{Bookmark: b}
	if b.Color != "" {
		v.TextColor = domain.ContrastColor(b.Color)
	}
	return v
}

func newBookmarkViews(bs []domain.Bookmark) []bookmarkView {
	out := make([]bookmarkView, 0, len(bs))
	for _, b := range bs {
		out = append(out, newBookmarkView(b))
	}
	return out
}

type categoryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	Visible   bool   `json:"visible"`
	Color     string `json:"color,omitempty"`
	TextColor string `json:"textColor,omitempty"`
}

func newCategoryView(c domain.Category) categoryView {
	v := categoryView{ID: c.ID, Name: c.Name, Order: c.Order, Visible: c.Visible, Color: c.Color}
	if c.Color != "" {
		v.TextColor = domain.ContrastColor(c.Color)
	}
	return v
}

func newCategoryViews(cs []domain.Category) []categoryView {
	out := make([]categoryView, 0, len(cs))
	for _, c := range cs {
		out = append(out, newCategoryView(c))
	}
	return out
}

type settingsView struct {
	domain.AppSettings
	TextColor string `json:"textColor,omitempty"`
}

func newSettingsView(s domain.AppSettings) settingsView {
	v := settingsView{AppSettings: s}
	if s.BackgroundColor != "" {
		v.TextColor = domain.ContrastColor(s.BackgroundColor)
	}
	return v
}

// versionSummary omits the snapshot so that listings stay small.
type versionSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Timestamp  string `json:"timestamp"`
	Bookmarks  int    `json:"bookmarks"`
	Categories int    `json:"categories"`
}

func newVersionSummary(v domain.BackupVersion) versionSummary {
	return versionSummary{
		ID:         v.ID,
		Name:       v.Name,
		Timestamp:  v.Timestamp,
		Bookmarks:  len(v.Data.Bookmarks),
		Categories: len(v.Data.Categories),
	}
}
