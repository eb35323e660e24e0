package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kondate/mealplanner/internal/ports/outbound"
)

func newTestRepo(t *testing.T) (*CacheRepository, *time.Time) {
	t.Helper()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := NewCacheRepository(0)
	repo.now = func() time.Time { return now }
	t.Cleanup(func() { _ = repo.Close() })
	return repo, &now
}

func TestCacheRepository_SetGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "latest", []byte(`{"main_dish":null}`), time.Hour))

	value, err := repo.Get(ctx, "latest")
	require.NoError(t, err)
	assert.Equal(t, `{"main_dish":null}`, string(value))

	exists, err := repo.Exists(ctx, "latest")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCacheRepository_Miss(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheRepository_Expiry(t *testing.T) {
	repo, now := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Minute))
	*now = now.Add(2 * time.Minute)

	_, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	exists, err := repo.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, 1, repo.Len())
	repo.sweep()
	assert.Equal(t, 0, repo.Len())
}

func TestCacheRepository_ZeroTTLUsesDefault(t *testing.T) {
	repo, now := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))
	*now = now.Add(DefaultTTL - time.Second)

	_, err := repo.Get(ctx, "k")
	assert.NoError(t, err)
}

func TestCacheRepository_CopiesValues(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, repo.Set(ctx, "k", value, time.Hour))
	value[0] = 'x'

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestCacheRepository_Delete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, repo.Delete(ctx, "k"))
	require.NoError(t, repo.Delete(ctx, "never-set"))

	_, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheRepository_ConcurrentAccess(t *testing.T) {
	repo := NewCacheRepository(time.Millisecond)
	defer repo.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%5)
			_ = repo.Set(ctx, key, []byte(key), time.Second)
			_, _ = repo.Get(ctx, key)
			_, _ = repo.Exists(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, repo.Len(), 5)
	assert.NoError(t, repo.Close())
	assert.NoError(t, repo.Close())
}
