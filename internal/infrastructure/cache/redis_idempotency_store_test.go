package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredisClient(t)
	store := NewRedisIdempotencyStore(client, "")

	fresh, err := store.MarkProcessed(ctx, "BATCH-1:fee_paid:regulator_ddgaf", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.True(t, mr.Exists(DefaultKeyPrefix+"BATCH-1:fee_paid:regulator_ddgaf"))

	fresh, err = store.MarkProcessed(ctx, "BATCH-1:fee_paid:regulator_ddgaf", time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)

	mr.FastForward(2 * time.Hour)
	seen, err := store.IsProcessed(ctx, "BATCH-1:fee_paid:regulator_ddgaf")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Close())
	assert.NoError(t, client.Ping(ctx).Err(), "store must not close the shared client")
}

func TestRedisIdempotencyStore_ServerDown(t *testing.T) {
	mr, client := newMiniredisClient(t)
	store := NewRedisIdempotencyStore(client, "x:")
	mr.Close()

	_, err := store.MarkProcessed(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Enabled: true, Host: host, Port: port})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.RedisConfig{Enabled: true, Host: host, Port: port})
	assert.Error(t, err)
}

func TestNewIdempotencyStore(t *testing.T) {
	_, client := newMiniredisClient(t)

	assert.IsType(t, &RedisIdempotencyStore{}, NewIdempotencyStore(client, zap.NewNop()))

	local := NewIdempotencyStore(nil, nil)
	defer local.Close()
	assert.IsType(t, &InMemoryIdempotencyStore{}, local)
}
