package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/MrSnakeDoc/haven/internal/app"
	"github.com/MrSnakeDoc/haven/internal/config"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/utils"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

// setupLogging sends CLI diagnostics to stderr through tint.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func (g *GlobalFlags) writer() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

// withWorkspace opens the configured store, runs fn and closes the store.
func (g *GlobalFlags) withWorkspace(fn func(ctx context.Context, ws *workspace.Workspace) error) error {
	open := g.open
	if open == nil {
		open = openWorkspace
	}

	ctx := context.Background()
	ws, release, err := open(ctx, g)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer release()

	return fn(ctx, ws)
}

// openWorkspace loads the server configuration from the environment,
// applies flag overrides and opens the store the server would use.
func openWorkspace(ctx context.Context, g *GlobalFlags) (*workspace.Workspace, func(), error) {
	if g.Storage != "" {
		if err := os.Setenv("HAVEN_STORAGE", g.Storage); err != nil {
			return nil, nil, err
		}
	}
	if g.SQLitePath != "" {
		if err := os.Setenv("HAVEN_SQLITE_PATH", g.SQLitePath); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log := logger.Nop()
	if g.Verbose {
		log = logger.New("debug", true)
	}

	s, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("storage opened", "backend", s.Backend())

	return workspace.New(ctx, s, log, cfg.FaviconService), func() { utils.MustClose(s.Backend()+" storage", s) }, nil
}

// loadConfig turns a config.Load panic on bad environment into an error.
func loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid configuration: %v", r)
		}
	}()
	return config.Load(), nil
}

func (g *GlobalFlags) printJSON(v any) error {
	enc := json.NewEncoder(g.writer())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (g *GlobalFlags) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(g.writer(), format, args...)
}
