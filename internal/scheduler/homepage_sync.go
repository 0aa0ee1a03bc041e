// Package scheduler runs background jobs against the workspace.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/metrics"
	"github.com/MrSnakeDoc/haven/internal/sources/homepage"
	"github.com/MrSnakeDoc/haven/internal/store"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

// HomepageSync merges a Homepage bookmarks.yaml file into the workspace on
// start, on every interval tick and on manual trigger. Bookmarks already
// present are never overwritten, and an entry is only imported the first
// time it shows up in the file so user deletions stick.
type HomepageSync struct {
	loader        *homepage.Loader
	workspace     *workspace.Workspace
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger <-chan struct{}
}

// NewHomepageSync creates a sync job. A zero interval disables the ticker;
// manual triggers still work.
func NewHomepageSync(
	bookmarkFile string,
	ws *workspace.Workspace,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *HomepageSync {
	return &HomepageSync{
		loader:        homepage.NewLoader(bookmarkFile),
		workspace:     ws,
		logger:        log.With(logger.String("file", bookmarkFile)),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs an initial sync and then keeps syncing in the background until
// ctx is done or Stop is called. A failed initial sync is logged, not fatal.
func (hs *HomepageSync) Start(ctx context.Context) {
	if _, err := hs.Sync(ctx); err != nil {
		hs.logger.Warn("initial homepage sync failed", logger.Error(err))
	}

	go func() {
		var tick <-chan time.Time
		if hs.interval > 0 {
			ticker := time.NewTicker(hs.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				hs.syncAndLog(ctx)
			case <-hs.manualTrigger:
				hs.logger.Info("manual homepage sync triggered")
				hs.syncAndLog(ctx)
			case <-hs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the background loop. It is safe to call more than once.
func (hs *HomepageSync) Stop() {
	hs.stopOnce.Do(func() { close(hs.stopCh) })
}

// Sync loads the file once and merges it. It returns the number of
// bookmarks added.
func (hs *HomepageSync) Sync(ctx context.Context) (int, error) {
	config, err := hs.loader.Load()
	if err != nil {
		metrics.Imports.WithLabelValues("homepage", "error").Inc()
		return 0, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	groups, err := homepage.Map(config, time.Now())
	if err != nil {
		metrics.Imports.WithLabelValues("homepage", "error").Inc()
		return 0, fmt.Errorf("failed to map bookmarks: %w", err)
	}

	s := hs.workspace.Store()
	synced, ok := store.Load(ctx, s, hs.logger, store.KeyHomepageSynced, func() map[string]bool {
		return map[string]bool{}
	})
	if !ok {
		metrics.Imports.WithLabelValues("homepage", "error").Inc()
		return 0, fmt.Errorf("failed to read synced homepage ids")
	}
	if synced == nil {
		synced = map[string]bool{}
	}

	fresh := make([]workspace.Group, 0, len(groups))
	for _, g := range groups {
		keep := make([]domain.Bookmark, 0, len(g.Bookmarks))
		for _, b := range g.Bookmarks {
			if !synced[b.ID] {
				keep = append(keep, b)
			}
		}
		if len(keep) > 0 {
			fresh = append(fresh, workspace.Group{Name: g.Name, Bookmarks: keep})
		}
	}

	added, err := hs.workspace.MergeGroups(ctx, fresh)
	if err != nil {
		metrics.Imports.WithLabelValues("homepage", "error").Inc()
		return added, fmt.Errorf("failed to merge bookmarks: %w", err)
	}

	if len(fresh) > 0 {
		for _, g := range fresh {
			for _, b := range g.Bookmarks {
				synced[b.ID] = true
			}
		}
		if err := store.Save(ctx, s, store.KeyHomepageSynced, synced); err != nil {
			metrics.Imports.WithLabelValues("homepage", "error").Inc()
			return added, fmt.Errorf("failed to record synced homepage ids: %w", err)
		}
	}

	metrics.Imports.WithLabelValues("homepage", "ok").Inc()
	hs.logger.Info("homepage bookmarks synced",
		logger.Int("groups", len(groups)),
		logger.Int("added", added))
	return added, nil
}

func (hs *HomepageSync) syncAndLog(ctx context.Context) {
	if _, err := hs.Sync(ctx); err != nil {
		hs.logger.Error("failed to sync homepage bookmarks", logger.Error(err))
	}
}
