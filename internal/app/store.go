package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/haven/internal/config"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/redis"
	"github.com/MrSnakeDoc/haven/internal/store"
	"github.com/MrSnakeDoc/haven/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/haven/internal/store/redis"
	"github.com/MrSnakeDoc/haven/internal/store/sqlite"
)

// OpenStore returns the storage backend selected by cfg.Storage.
// The caller owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		log.Infof("Opening sqlite database at %s", cfg.SQLitePath)
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.StorageRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil

	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on exit")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}
