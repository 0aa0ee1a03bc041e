package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends understood by app.OpenStore.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// DefaultFaviconService is the favicon endpoint; %s receives the bookmark hostname.
const DefaultFaviconService = "https://www.google.com/s2/favicons?domain=%s"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Storage    string // "sqlite" | "redis" | "memory"
	SQLitePath string // path to the sqlite database file

	FaviconService       string        // favicon URL template, %s = hostname
	HomepageBookmarks    string        // path to a homepage bookmarks.yaml (optional, empty = sync disabled)
	HomepageSyncInterval time.Duration // interval between homepage syncs (default: 24h)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict mutating routes to specific Host headers
	AllowedCIDRS []string // optional, restrict /metrics and /infra to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	RateLimitBurst  int // max burst of mutating requests per client IP
	RateLimitPerMin int // sustained mutating requests per minute per client IP
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("HAVEN_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("HAVEN_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HAVEN_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HAVEN_PRETTY_LOG", true),

		// Storage
		Storage:    strings.ToLower(getenv("HAVEN_STORAGE", StorageSQLite)),
		SQLitePath: getenv("HAVEN_SQLITE_PATH", "./data/haven.db"),

		// Bookmarks
		FaviconService:       getenv("HAVEN_FAVICON_SERVICE", DefaultFaviconService),
		HomepageBookmarks:    getenv("HAVEN_HOMEPAGE_BOOKMARKS", ""), // Optional, empty = sync disabled
		HomepageSyncInterval: mustDuration("HAVEN_HOMEPAGE_SYNC_INTERVAL", 24*time.Hour),

		// Redis settings (addr/db only read when the redis backend is selected)
		RedisUser:             getenv("HAVEN_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("HAVEN_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("HAVEN_REDIS_PASSWORD", ""),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("HAVEN_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("HAVEN_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("HAVEN_TRUST_PROXY", false),

		RateLimitBurst:  getenvInt("HAVEN_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("HAVEN_RATE_LIMIT_PER_MIN", 120),
	}

	switch cfg.Storage {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		cfg.RedisAddr = requireEnv("HAVEN_REDIS_ADDR")
		cfg.RedisDB = requireEnvInt("HAVEN_REDIS_DB")
		// Validate Redis password configuration
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: HAVEN_REDIS_PASSWORD is required when HAVEN_REDIS_PASSWORD_REQUIRED=true")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown HAVEN_STORAGE backend %q (want sqlite, redis or memory)", cfg.Storage))
	}

	if !strings.Contains(cfg.FaviconService, "%s") {
		panic(fmt.Sprintf("❌ FATAL: HAVEN_FAVICON_SERVICE must contain %%s, got %q", cfg.FaviconService))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := requireEnv(key)
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
