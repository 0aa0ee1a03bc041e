package domain

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// AppSettings is the per-profile singleton of display preferences.
type AppSettings struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Theme           Theme  `json:"theme,omitempty"`
}

// DefaultSettings follows the system theme and has no background colour.
func DefaultSettings() AppSettings {
	return AppSettings{Theme: ThemeSystem}
}

// ViewMode selects how bookmarks are laid out.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

func (v ViewMode) Valid() bool {
	return v == ViewGrid || v == ViewList
}
