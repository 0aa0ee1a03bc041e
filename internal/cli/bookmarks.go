package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	return c.globals.withWorkspace(c.executeWithWorkspace(args))
}

func (c *ListCommand) executeWithWorkspace(args []string) func(context.Context, *workspace.Workspace) error {
	return func(_ context.Context, ws *workspace.Workspace) error {
		query := c.Query
		if query == "" && len(args) > 0 {
			query = strings.Join(args, " ")
		}
		results := ws.Bookmarks.Search(query)

		if c.globals.JSON {
			return c.globals.printJSON(results)
		}

		if len(results) == 0 {
			c.globals.printf("No bookmarks found\n")
			return nil
		}
		for _, b := range results {
			category := b.Category
			if cat, ok := ws.Categories.Get(b.Category); ok {
				category = cat.Name
			}
			c.globals.printf("%s  %s\n", b.ID, b.Title)
			c.globals.printf("   %s  [%s]\n", b.URL, category)
		}
		return nil
	}
}

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(_ []string) error {
	if c.Title == "" {
		return fmt.Errorf("--title is required for add command")
	}
	if c.URL == "" {
		return fmt.Errorf("--url is required for add command")
	}
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

func (c *AddCommand) executeWithWorkspace(ctx context.Context, ws *workspace.Workspace) error {
	category, err := c.resolveCategory(ctx, ws)
	if err != nil {
		return err
	}

	b, err := ws.Bookmarks.Add(ctx, domain.BookmarkInput{
		Title:       c.Title,
		URL:         c.URL,
		Description: c.Description,
		Category:    category,
		Color:       c.Color,
	})
	if err != nil {
		return fmt.Errorf("adding bookmark: %w", err)
	}

	if c.globals.JSON {
		return c.globals.printJSON(b)
	}
	c.globals.printf("Added bookmark %s\n", b.ID)
	c.globals.printf("  Title: %s\n", b.Title)
	c.globals.printf("  URL: %s\n", b.URL)
	return nil
}

// resolveCategory accepts a category id or name. Unknown names are created.
func (c *AddCommand) resolveCategory(ctx context.Context, ws *workspace.Workspace) (string, error) {
	if c.Category == "" || ws.Categories.Exists(c.Category) {
		return c.Category, nil
	}

	cat, created, err := ws.Categories.EnsureByName(ctx, c.Category)
	if err != nil {
		return "", fmt.Errorf("creating category %q: %w", c.Category, err)
	}
	if created {
		slog.Info("category created", "id", cat.ID, "name", cat.Name)
	}
	return cat.ID, nil
}

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(_ []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for delete command")
	}
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

func (c *DeleteCommand) executeWithWorkspace(ctx context.Context, ws *workspace.Workspace) error {
	if _, ok := ws.Bookmarks.Get(c.ID); !ok {
		c.globals.printf("Bookmark %s not found, nothing to delete\n", c.ID)
		return nil
	}
	if err := ws.Bookmarks.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	c.globals.printf("Deleted bookmark %s\n", c.ID)
	return nil
}

// Execute implements the go-flags Commander interface for CategoriesCommand.
func (c *CategoriesCommand) Execute(_ []string) error {
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

type categoryRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	Visible   bool   `json:"visible"`
	Color     string `json:"color,omitempty"`
	Bookmarks int    `json:"bookmarks"`
}

func (c *CategoriesCommand) executeWithWorkspace(_ context.Context, ws *workspace.Workspace) error {
	counts := make(map[string]int)
	for _, b := range ws.Bookmarks.List() {
		counts[b.Category]++
	}

	categories := ws.Categories.List()
	rows := make([]categoryRow, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, categoryRow{
			ID:        cat.ID,
			Name:      cat.Name,
			Order:     cat.Order,
			Visible:   cat.Visible,
			Color:     cat.Color,
			Bookmarks: counts[cat.ID],
		})
	}

	if c.globals.JSON {
		return c.globals.printJSON(rows)
	}
	for _, r := range rows {
		hidden := ""
		if !r.Visible {
			hidden = " (hidden)"
		}
		c.globals.printf("%d. %s%s  %d bookmarks  [%s]\n", r.Order, r.Name, hidden, r.Bookmarks, r.ID)
	}
	return nil
}
