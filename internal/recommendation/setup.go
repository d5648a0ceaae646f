package recommendation

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/prefeitura-rio/app-personalizacao/internal/config"
	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation/adapter"
)

// Components gerador montado a partir da configuração
type Components struct {
	Generator *Generator
	Upstream  adapter.Upstream
	// Redis é nil quando o cache é local
	Redis *redis.Client
}

// Close libera a conexão com o Redis
func (c *Components) Close() error {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Close()
}

// NewFromConfig monta provedor, cache e gerador. Com REDIS_ADDRESS vazio o
// cache fica em memória e não é compartilhado entre instâncias.
func NewFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Components, error) {
	upstream, err := adapter.FromConfig(ctx, cfg.Recommendation)
	if err != nil {
		return nil, err
	}

	comps := &Components{Upstream: upstream}

	var cache Cache
	if cfg.RedisAddress != "" {
		client, err := NewRedisClient(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("falha ao conectar no Redis: %w", err)
		}
		comps.Redis = client
		cache = NewRedisCache(client, cfg.Recommendation.CacheTTL, log)
	} else {
		cache = NewMemoryCache(cfg.Recommendation.CacheTTL, cfg.Recommendation.CacheMaxSize)
	}

	comps.Generator = NewGenerator(upstream, cache, GeneratorConfig{
		Timeout:                 cfg.Recommendation.Timeout,
		DedupeInFlight:          cfg.Recommendation.DedupeInFlight,
		BreakerFailureThreshold: cfg.Recommendation.BreakerFailureThreshold,
		BreakerOpenTimeout:      cfg.Recommendation.BreakerOpenTimeout,
	}, log)

	log.Info("Gerador de recomendações configurado",
		logger.String("provider", upstream.Name()),
		logger.Bool("shared_cache", comps.Redis != nil),
		logger.Bool("dedupe_inflight", cfg.Recommendation.DedupeInFlight),
	)
	return comps, nil
}
