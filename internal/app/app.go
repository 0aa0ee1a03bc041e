package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/haven/internal/config"
	"github.com/MrSnakeDoc/haven/internal/httpserver"
	"github.com/MrSnakeDoc/haven/internal/httpserver/deps"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/scheduler"
	"github.com/MrSnakeDoc/haven/internal/store"
	"github.com/MrSnakeDoc/haven/internal/version"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	store        store.Store
	workspace    *workspace.Workspace
	homepageSync *scheduler.HomepageSync
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open storage early - fail fast if unavailable
	s, err := OpenStore(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s storage: %v", cfg.Storage, err)
		os.Exit(1)
	}
	loggerClient.Info("storage initialized successfully",
		logger.String("backend", s.Backend()))

	// Hydrate every collection from the store
	ws := workspace.New(context.Background(), s, loggerClient, cfg.FaviconService)

	// Initialize homepage sync (if a homepage bookmarks file is configured)
	var homepageSync *scheduler.HomepageSync
	var homepageTrigger chan struct{}
	if cfg.HomepageBookmarks != "" {
		loggerClient.Info("homepage bookmarks configured, initializing sync",
			logger.String("file", cfg.HomepageBookmarks))
		homepageTrigger = make(chan struct{}, 1)
		homepageSync = scheduler.NewHomepageSync(
			cfg.HomepageBookmarks,
			ws,
			loggerClient,
			cfg.HomepageSyncInterval,
			homepageTrigger,
		)
	} else {
		loggerClient.Info("homepage bookmarks not configured, sync disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		Workspace:       ws,
		HomepageTrigger: homepageTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		store:        s,
		workspace:    ws,
		homepageSync: homepageSync,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Haven v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Haven %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start homepage sync (imports once, then refreshes periodically)
	if a.homepageSync != nil {
		a.homepageSync.Start(ctx)
		a.logger.Info("homepage sync started",
			logger.Duration("interval", a.cfg.HomepageSyncInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.closeStore()
		return err
	}

	if a.homepageSync != nil {
		a.homepageSync.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.closeStore()
	a.logger.Info("✅ Haven stopped cleanly")
	return nil
}

func (a *App) closeStore() {
	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close %s storage: %v", a.store.Backend(), err)
		return
	}
	a.logger.Infof("✅ %s storage closed cleanly", a.store.Backend())
}
