package recommendation

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

const redisKeyPrefix = "personalization:recommendations:"

// RedisCache cache de recomendações compartilhado entre instâncias.
// A expiração do Redis (EX) remove as chaves; a leitura também confere createdAt.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
	now    func() time.Time
}

type redisEntry struct {
	Payload   *models.Payload `json:"payload"`
	CreatedAt int64           `json:"createdAt"`
}

// NewRedisCache cria um cache apoiado no Redis
func NewRedisCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

// Get busca uma recomendação viva. Erros do Redis são tratados como ausência.
func (c *RedisCache) Get(ctx context.Context, key string) (*models.Payload, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Falha ao ler recomendação do Redis", logger.String("key", key), logger.Error(err))
		return nil, false
	}

	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Payload == nil {
		c.log.Warn("Recomendação corrompida no Redis", logger.String("key", key))
		c.Delete(ctx, key)
		return nil, false
	}

	if c.now().Sub(time.UnixMilli(entry.CreatedAt)) > c.ttl {
		c.Delete(ctx, key)
		return nil, false
	}
	return entry.Payload, true
}

// Put armazena a recomendação com expiração igual ao TTL
func (c *RedisCache) Put(ctx context.Context, key string, payload *models.Payload) {
	if payload == nil {
		return
	}

	data, err := json.Marshal(redisEntry{Payload: payload, CreatedAt: c.now().UnixMilli()})
	if err != nil {
		c.log.Error("Falha ao serializar recomendação", logger.Error(err))
		return
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warn("Falha ao gravar recomendação no Redis", logger.String("key", key), logger.Error(err))
	}
}

// Delete remove a recomendação da chave
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		c.log.Warn("Falha ao remover recomendação do Redis", logger.String("key", key), logger.Error(err))
	}
}

// NewRedisClient cria o cliente Redis e verifica a conexão
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("endereço do Redis é obrigatório")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
