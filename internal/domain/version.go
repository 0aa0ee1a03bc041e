package domain

import "time"

// ISOTimestamp is the timestamp layout used in backups: UTC with millisecond precision.
const ISOTimestamp = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the backup timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(ISOTimestamp)
}

// Snapshot is the full state of the three user collections.
// Settings is a pointer because backups may omit it.
type Snapshot struct {
	Bookmarks  []Bookmark   `json:"bookmarks"`
	Categories []Category   `json:"categories"`
	Settings   *AppSettings `json:"settings,omitempty"`
}

// BackupVersion is a named snapshot saved locally. Only Name may change
// after creation.
type BackupVersion struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Timestamp string   `json:"timestamp"`
	Data      Snapshot `json:"data"`
}
