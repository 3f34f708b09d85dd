package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "dataset-registry-service/internal/domain/user"
)

func setupCache(t *testing.T) (*RedisDatasetCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisDatasetCache(client, "", time.Minute, zaptest.NewLogger(t)), mr
}

func TestKey_EscapesSeparators(t *testing.T) {
	assert.Equal(t, "dataset:alice:report", Key("alice", "report"))
	assert.NotEqual(t, Key("a:b", "c"), Key("a", "b:c"))
}

func TestRedisDatasetCache_Miss(t *testing.T) {
	c, _ := setupCache(t)

	records, ok, err := c.Get(context.Background(), "alice", "report")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, records)
}

func TestRedisDatasetCache_SetGetKeepsOrder(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	records := []domain.Record{
		{{Name: "Name", Value: "Alice"}, {Name: "ID", Value: "1"}},
		{},
	}
	require.NoError(t, c.Set(ctx, "alice", "report", records))

	raw, err := mr.Get(Key("alice", "report"))
	require.NoError(t, err)
	assert.Equal(t, `[{"Name":"Alice","ID":"1"},{}]`, raw)

	got, ok, err := c.Get(ctx, "alice", "report")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, records[0], got[0])
	assert.Empty(t, got[1])
}

func TestRedisDatasetCache_EmptyDataset(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u", "d", nil))

	got, ok, err := c.Get(ctx, "u", "d")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRedisDatasetCache_TTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u", "d", []domain.Record{{{Name: "a", Value: "1"}}}))
	assert.Equal(t, time.Minute, mr.TTL(Key("u", "d")))

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "u", "d")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDatasetCache_Delete(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u", "d", []domain.Record{}))
	require.NoError(t, c.Delete(ctx, "u", "d"))
	assert.False(t, mr.Exists(Key("u", "d")))
}

func TestRedisDatasetCache_CorruptValue(t *testing.T) {
	c, mr := setupCache(t)
	require.NoError(t, mr.Set(Key("u", "d"), "not json"))

	_, ok, err := c.Get(context.Background(), "u", "d")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisDatasetCache_NamespacesAreIsolated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	before := NewRedisDatasetCache(client, "registry:a", time.Minute, log)
	after := NewRedisDatasetCache(client, "registry:b", time.Minute, log)

	require.NoError(t, before.Set(ctx, "u", "d", []domain.Record{{{Name: "a", Value: "1"}}}))
	assert.True(t, mr.Exists("registry:a:"+Key("u", "d")))

	_, ok, err := after.Get(ctx, "u", "d")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDatasetCache_ServerDown(t *testing.T) {
	c, mr := setupCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "u", "d")
	assert.Error(t, err)
}
