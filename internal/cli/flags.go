package cli

import (
	"context"
	"io"

	"github.com/MrSnakeDoc/haven/internal/workspace"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Storage    string `long:"storage" description:"Storage backend override: sqlite | redis | memory"`
	SQLitePath string `long:"sqlite-path" description:"SQLite database path override"`
	JSON       bool   `long:"json" description:"Output in JSON format"`
	Verbose    bool   `long:"verbose" description:"Enable verbose output"`
	Version    bool   `long:"version" description:"Show version and exit"`

	out  io.Writer // nil means os.Stdout
	open opener    // injectable for testing; nil means openWorkspace
}

// opener returns a loaded workspace and the func that releases it.
type opener func(ctx context.Context, g *GlobalFlags) (*workspace.Workspace, func(), error)

// ListCommand prints bookmarks, optionally filtered.
type ListCommand struct {
	Query string `long:"query" short:"q" description:"Case-insensitive filter on title, url and description"`

	globals *GlobalFlags
}

// AddCommand saves a new bookmark.
type AddCommand struct {
	Title       string `long:"title" description:"Bookmark title (required)"`
	URL         string `long:"url" description:"Bookmark URL (required)"`
	Category    string `long:"category" description:"Category id or name, created when missing"`
	Description string `long:"description" description:"Optional description"`
	Color       string `long:"color" description:"Optional hex tag colour"`

	globals *GlobalFlags
}

// DeleteCommand removes a bookmark right away.
type DeleteCommand struct {
	ID string `long:"id" description:"Bookmark id (required)"`

	globals *GlobalFlags
}

// CategoriesCommand prints categories in display order.
type CategoriesCommand struct {
	globals *GlobalFlags
}

// ExportCommand writes a backup file.
type ExportCommand struct {
	Out string `long:"out" short:"o" description:"Output file (default: stdout)"`

	globals *GlobalFlags
}

// ImportCommand replaces all data with a backup file.
type ImportCommand struct {
	File string `long:"file" short:"f" description:"Backup file to import, - for stdin (required)"`

	globals *GlobalFlags
}

// VersionsCommand lists saved backup versions.
type VersionsCommand struct {
	globals *GlobalFlags
}

// SaveVersionCommand snapshots the current data.
type SaveVersionCommand struct {
	Name string `long:"name" description:"Version name (default: timestamped)"`

	globals *GlobalFlags
}

// RestoreVersionCommand overwrites all data with a saved version.
type RestoreVersionCommand struct {
	ID string `long:"id" description:"Version id (required)"`

	globals *GlobalFlags
}

// RenameVersionCommand renames a saved version.
type RenameVersionCommand struct {
	ID   string `long:"id" description:"Version id (required)"`
	Name string `long:"name" description:"New name (required)"`

	globals *GlobalFlags
}

// DeleteVersionCommand removes a saved version.
type DeleteVersionCommand struct {
	ID string `long:"id" description:"Version id (required)"`

	globals *GlobalFlags
}

// HomepageCommand merges a homepage bookmarks.yaml once.
type HomepageCommand struct {
	File string `long:"file" description:"Path to bookmarks.yaml (required)"`

	globals *GlobalFlags
}
