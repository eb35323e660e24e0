// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kondate/mealplanner/internal/ports/outbound"
)

// DefaultTTL applies when Set is called with a zero ttl
const DefaultTTL = 24 * time.Hour

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

func (i CacheItem) expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// NewCacheRepository creates a new in-memory cache repository that sweeps expired keys every interval.
// A non-positive interval disables the sweeper.
func NewCacheRepository(cleanupInterval time.Duration) *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go repo.cleanup(cleanupInterval)
	}

	return repo
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists || item.expired(r.now()) {
		return nil, outbound.ErrCacheMiss
	}

	value := make([]byte, len(item.Value))
	copy(value, item.Value)
	return value, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[key] = CacheItem{
		Value:     stored,
		ExpiresAt: r.now().Add(ttl),
	}

	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, exists := r.data[key]
	return exists && !item.expired(r.now()), nil
}

// Len returns the number of stored entries, expired or not
func (r *CacheRepository) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.data)
}

// Close stops the sweeper
func (r *CacheRepository) Close() error {
	r.stopOnce.Do(func() { close(r.stop) })
	return nil
}

func (r *CacheRepository) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *CacheRepository) sweep() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	for key, item := range r.data {
		if item.expired(now) {
			delete(r.data, key)
		}
	}
}
