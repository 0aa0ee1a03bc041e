package cli

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/scheduler"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

// Execute implements the go-flags Commander interface for HomepageCommand.
func (c *HomepageCommand) Execute(_ []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required for homepage command")
	}
	return c.globals.withWorkspace(c.executeWithWorkspace)
}

func (c *HomepageCommand) executeWithWorkspace(ctx context.Context, ws *workspace.Workspace) error {
	job := scheduler.NewHomepageSync(c.File, ws, logger.Nop(), 0, nil)
	added, err := job.Sync(ctx)
	if err != nil {
		return err
	}
	c.globals.printf("Merged %d new bookmarks from %s\n", added, c.File)
	return nil
}
