package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"igflash/pkg/logger"
)

// opTimeout bounds each Redis round trip
const opTimeout = 500 * time.Millisecond

// RedisStore is a Redis-backed Store shared between processes
type RedisStore struct {
	client *redis.Client
	prefix string
	logger logger.Logger
}

// NewRedisStore creates a store namespacing every key with prefix
func NewRedisStore(client *redis.Client, prefix string, log logger.Logger) *RedisStore {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: log,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).WarnWithFields("redis cache get failed, treating as miss", map[string]interface{}{
				"key": key,
			})
		}
		return nil, false
	}
	return data, true
}

// Set writes value with SET EX. A non-positive ttl stores without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		s.logger.WithError(err).WarnWithFields("redis cache set failed", map[string]interface{}{
			"key": key,
		})
	}
}

// Delete removes key
func (s *RedisStore) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.WithError(err).WarnWithFields("redis cache delete failed", map[string]interface{}{
			"key": key,
		})
	}
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
