package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kondate/mealplanner/internal/ports/outbound"
)

// These tests need a live server; set KONDATE_TEST_REDIS_ADDR to run them.
func connectForTest(t *testing.T) *CacheRepository {
	t.Helper()

	addr := os.Getenv("KONDATE_TEST_REDIS_ADDR")
	if addr == "" || testing.Short() {
		t.Skip("KONDATE_TEST_REDIS_ADDR not set")
	}

	repo, err := Connect(context.Background(), Options{
		Addr:      addr,
		KeyPrefix: "kondate-test:" + uuid.NewString() + ":",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestCacheRepository_RoundTrip(t *testing.T) {
	repo := connectForTest(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "latest")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "latest", []byte(`{"soup":null}`), time.Minute))

	value, err := repo.Get(ctx, "latest")
	require.NoError(t, err)
	assert.Equal(t, `{"soup":null}`, string(value))

	exists, err := repo.Exists(ctx, "latest")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "latest"))
	exists, err = repo.Exists(ctx, "latest")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConnect_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("dials the network")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Connect(ctx, Options{Addr: "127.0.0.1:1"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
