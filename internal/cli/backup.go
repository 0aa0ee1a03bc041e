package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MrSnakeDoc/haven/internal/workspace"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(_ []string) error {
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

func (c *ExportCommand) executeWithWorkspace(_ context.Context, ws *workspace.Workspace) error {
	raw, name, err := ws.ExportJSON()
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	if c.Out == "" {
		_, err = c.globals.writer().Write(raw)
		return err
	}

	if err := os.WriteFile(c.Out, raw, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	c.globals.printf("Exported %d bookmarks to %s (suggested name %s)\n", ws.Bookmarks.Count(), c.Out, name)
	return nil
}

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(_ []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required for import command")
	}

	raw, err := readInput(c.File)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	return c.globals.withWorkspace(func(ctx context.Context, ws *workspace.Workspace) error {
		return c.executeWithWorkspace(ctx, ws, raw)
	})
}

func (c *ImportCommand) executeWithWorkspace(ctx context.Context, ws *workspace.Workspace, raw []byte) error {
	snap, err := ws.Import(ctx, raw)
	if err != nil {
		return fmt.Errorf("importing backup: %w", err)
	}
	c.globals.printf("Imported %d bookmarks and %d categories\n", len(snap.Bookmarks), len(snap.Categories))
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// Execute implements the go-flags Commander interface for VersionsCommand.
func (c *VersionsCommand) Execute(_ []string) error {
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

type versionRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Timestamp  string `json:"timestamp"`
	Bookmarks  int    `json:"bookmarks"`
	Categories int    `json:"categories"`
}

func (c *VersionsCommand) executeWithWorkspace(_ context.Context, ws *workspace.Workspace) error {
	versions := ws.Versions.List()
	rows := make([]versionRow, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, versionRow{
			ID:         v.ID,
			Name:       v.Name,
			Timestamp:  v.Timestamp,
			Bookmarks:  len(v.Data.Bookmarks),
			Categories: len(v.Data.Categories),
		})
	}

	if c.globals.JSON {
		return c.globals.printJSON(rows)
	}
	if len(rows) == 0 {
		c.globals.printf("No saved versions\n")
		return nil
	}
	for _, r := range rows {
		c.globals.printf("%s  %s  (%s, %d bookmarks)\n", r.ID, r.Name, r.Timestamp, r.Bookmarks)
	}
	return nil
}

// Execute implements the go-flags Commander interface for SaveVersionCommand.
func (c *SaveVersionCommand) Execute(_ []string) error {
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

func (c *SaveVersionCommand) executeWithWorkspace(ctx context.Context, ws *workspace.Workspace) error {
	v, err := ws.SaveVersion(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("saving version: %w", err)
	}
	c.globals.printf("Saved version %s (%s)\n", v.ID, v.Name)
	return nil
}

// Execute implements the go-flags Commander interface for RestoreVersionCommand.
func (c *RestoreVersionCommand) Execute(_ []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for restore-version command")
	}
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

func (c *RestoreVersionCommand) executeWithWorkspace(ctx context.Context, ws *workspace.Workspace) error {
	v, ok, err := ws.RestoreVersion(ctx, c.ID)
	if !ok {
		return fmt.Errorf("version %q not found", c.ID)
	}
	if err != nil {
		return fmt.Errorf("restoring version: %w", err)
	}
	c.globals.printf("Restored version %s (%s)\n", v.ID, v.Name)
	return nil
}

// Execute implements the go-flags Commander interface for RenameVersionCommand.
func (c *RenameVersionCommand) Execute(_ []string) error {
	if c.ID == "" || c.Name == "" {
		return fmt.Errorf("--id and --name are required for rename-version command")
	}
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

func (c *RenameVersionCommand) executeWithWorkspace(ctx context.Context, ws *workspace.Workspace) error {
	v, err := ws.Versions.Rename(ctx, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("renaming version: %w", err)
	}
	c.globals.printf("Renamed version %s to %s\n", v.ID, v.Name)
	return nil
}

// Execute implements the go-flags Commander interface for DeleteVersionCommand.
func (c *DeleteVersionCommand) Execute(_ []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for delete-version command")
	}
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

func (c *DeleteVersionCommand) executeWithWorkspace(ctx context.Context, ws *workspace.Workspace) error {
	if err := ws.Versions.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("deleting version: %w", err)
	}
	c.globals.printf("Deleted version %s\n", c.ID)
	return nil
}
