package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/haven/internal/domain"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/metrics"
	"github.com/MrSnakeDoc/haven/internal/store"
)

// Settings holds the AppSettings singleton.
type Settings struct {
	store store.Store
	log   logger.Logger

	mu     sync.RWMutex
	cur    domain.AppSettings
	loaded bool
}

func NewSettings(ctx context.Context, s store.Store, log logger.Logger) *Settings {
	r := &Settings{
		store: s,
		log:   log.With(logger.String("collection", store.KeySettings)),
	}
	r.Reload(ctx)
	return r
}

func (r *Settings) Reload(ctx context.Context) {
	cur, ok := store.Load(ctx, r.store, r.log, store.KeySettings, domain.DefaultSettings)
	if !cur.Theme.Valid() {
		cur.Theme = domain.ThemeSystem
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !ok && r.loaded {
		return
	}
	r.cur = cur
	r.loaded = true
}

func (r *Settings) Get() domain.AppSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

// SetBackgroundColor sets the page background. An empty color restores the
// theme default.
func (r *Settings) SetBackgroundColor(ctx context.Context, color string) (domain.AppSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cur.BackgroundColor = strings.TrimSpace(color)
	return r.cur, r.persist(ctx, "background")
}

func (r *Settings) SetTheme(ctx context.Context, theme domain.Theme) (domain.AppSettings, error) {
	if !theme.Valid() {
		return domain.AppSettings{}, fmt.Errorf("%w: theme %q", ErrInvalidSetting, theme)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cur.Theme = theme
	return r.cur, r.persist(ctx, "theme")
}

func (r *Settings) persist(ctx context.Context, op string) error {
	metrics.Mutations.WithLabelValues("settings", op).Inc()
	if err := store.Save(ctx, r.store, store.KeySettings, r.cur); err != nil {
		r.log.Error("settings change kept in memory only",
			logger.String("op", op),
			logger.Error(err))
		return err
	}
	return nil
}
