// Package redis provides the Redis backed cache repository
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kondate/mealplanner/internal/ports/outbound"
)

// Options configures the client
type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// CacheRepository implements outbound.CacheRepository on a Redis client
type CacheRepository struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Connect dials Redis and verifies the connection with PING
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (*CacheRepository, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{opts.Addr},
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  10 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized successfully",
		zap.String("addr", opts.Addr),
		zap.Int("database", opts.DB))

	return NewCacheRepository(client, opts.KeyPrefix, logger), nil
}

// NewCacheRepository wraps an existing client
func NewCacheRepository(client redis.UniversalClient, prefix string, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		client: client,
		prefix: prefix,
		logger: logger.Named("redis-cache"),
	}
}

func (r *CacheRepository) key(k string) string {
	return r.prefix + k
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrCacheMiss
	}
	if err != nil {
		r.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// Set stores a value in cache with TTL. A zero ttl keeps the key until deleted.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a value from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		r.logger.Error("Cache exists check failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return n > 0, nil
}

// Client returns the underlying Redis client
func (r *CacheRepository) Client() redis.UniversalClient {
	return r.client
}

// Ping reports whether Redis answers
func (r *CacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (r *CacheRepository) Close() error {
	return r.client.Close()
}
