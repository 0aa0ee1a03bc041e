package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed on mutating routes
	AllowedCIDRS []string // IPs allowed to reach /metrics, /infra and /api/reload
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Workspace       *workspace.Workspace // bookmarks, categories, settings, layout, versions
	HomepageTrigger chan struct{}        // manual homepage sync (nil if sync is disabled)
	MaxImportBytes  int64                // upper bound for backup uploads

	// Mutating wraps every route that changes state (host check + rate limit).
	// It is built once so all routes share the same limiter.
	Mutating func(http.Handler) http.Handler
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
