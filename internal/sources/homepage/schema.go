package homepage

// BookmarkEntry holds the properties of a single bookmark in bookmarks.yaml.
type BookmarkEntry struct {
	Icon        string `yaml:"icon"`
	Abbr        string `yaml:"abbr"`
	Href        string `yaml:"href"`
	Description string `yaml:"description"`
}

// BookmarkGroup maps a group name to its bookmarks.
// The YAML structure is: - GroupName: [ - BookmarkName: [{ abbr, href, ... }] ]
// Each bookmark name maps to a list with a single entry.
type BookmarkGroup map[string][]map[string][]BookmarkEntry

// BookmarksConfig is the root structure of bookmarks.yaml.
type BookmarksConfig []BookmarkGroup
