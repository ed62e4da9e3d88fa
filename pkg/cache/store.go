package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"igflash/pkg/config"
	errs "igflash/pkg/errors"
	"igflash/pkg/logger"
)

// Store is a key-value cache holding raw JSON documents. Writes are atomic
// per key; a failing backend behaves like an empty cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Backend is a Store owning resources that must be released
type Backend interface {
	Store
	Close() error
}

// New builds the backend selected by cfg.Cache.Backend. Memory entries never
// outlive the positive cache TTL. The Redis backend is pinged once so a wrong
// address fails fast.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (Backend, error) {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "", "memory":
		return NewMemoryStore(cfg.Cache.MaxEntries, cfg.Provider.TTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, errs.Wrap(errs.ErrorTypeConfiguration,
				fmt.Sprintf("cannot reach redis at %s", cfg.Cache.Redis.Addr), err)
		}
		return NewRedisStore(client, cfg.Cache.Redis.Prefix, log), nil
	default:
		return nil, errs.Newf(errs.ErrorTypeConfiguration, "unknown cache backend %q", cfg.Cache.Backend)
	}
}
