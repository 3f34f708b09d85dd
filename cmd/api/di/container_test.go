package di

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dataset-registry-service/internal/config"
	domain "dataset-registry-service/internal/domain/user"
	"dataset-registry-service/internal/usecase/registry"
)

func testConfig(t *testing.T) *config.Config {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func exercise(t *testing.T, uc registry.Usecase) {
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, registry.RegisterUserRequest{Username: "u"})
	require.NoError(t, err)

	_, err = uc.UploadDataset(ctx, registry.UploadDatasetRequest{
		Username: "u", DatasetName: "d", Filename: "d.csv", Content: []byte("a,b\n1,2"),
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := uc.GetDataset(ctx, registry.GetDatasetRequest{Username: "u", DatasetName: "d"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got.Records[0].Map())
	}
}

func TestNewContainer_Memory(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	assert.Nil(t, c.DB)
	assert.Nil(t, c.RedisClient)
	assert.False(t, c.RateLimiter.Enabled())
	exercise(t, c.RegistryUC)
}

func TestNewContainer_SQLiteWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Store.Driver = config.StoreSQLite
	cfg.Store.SQLiteDSN = "file:container_test?mode=memory&cache=shared"
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()
	cfg.RateLimit.Enabled = true

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	assert.NotNil(t, c.DB)
	assert.NotNil(t, c.RedisClient)
	assert.Equal(t, cfg.Logger.ServiceName, c.RedisClient.Namespace())
	assert.True(t, c.RateLimiter.Enabled())
	exercise(t, c.RegistryUC)
}

func TestNewContainer_MemoryWithRedisForgetsAcrossRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()

	first, err := NewContainer(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	exercise(t, first.RegistryUC)
	require.NoError(t, first.Close())

	second, err := NewContainer(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, second.Close()) })

	assert.NotEqual(t, first.RedisClient.Namespace(), second.RedisClient.Namespace())
	_, err = second.RegistryUC.GetDataset(ctx, registry.GetDatasetRequest{Username: "u", DatasetName: "d"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Driver = "postgres"

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestNewContainer_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()
	mr.Close()

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
