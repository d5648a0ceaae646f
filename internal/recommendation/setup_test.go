package recommendation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/app-personalizacao/internal/config"
	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Recommendation: config.RecommendationConfig{
			Provider:     config.ProviderNone,
			CacheTTL:     time.Minute,
			CacheMaxSize: 10,
			Timeout:      time.Second,
		},
	}
}

func TestNewFromConfigMemoryCache(t *testing.T) {
	comps, err := NewFromConfig(context.Background(), testConfig(), logger.NewNop())
	require.NoError(t, err)
	defer comps.Close()

	assert.Nil(t, comps.Redis)
	assert.Equal(t, "none", comps.Upstream.Name())

	res, err := comps.Generator.Generate(context.Background(), Request{Digest: testDigest()})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
}

func TestNewFromConfigRedisCache(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddress = srv.Addr()

	comps, err := NewFromConfig(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer comps.Close()
	require.NotNil(t, comps.Redis)

	_, err = comps.Generator.Generate(context.Background(), Request{Digest: testDigest(), UserID: "u1", Authenticated: true})
	require.NoError(t, err)
	assert.True(t, srv.Exists(redisKeyPrefix+"u1"))
}

func TestNewFromConfigErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Recommendation.Provider = "desconhecido"
	_, err := NewFromConfig(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.RedisAddress = "127.0.0.1:1"
	_, err = NewFromConfig(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}
