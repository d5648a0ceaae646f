package recommendation

import (
	"context"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

// DefaultCacheTTL tempo de vida de uma recomendação em cache
const DefaultCacheTTL = 30 * time.Minute

// Cache armazena a última recomendação gerada por chave (userId ou "anonymous").
// Entradas expiram TTL após a inserção; a expiração é verificada na leitura.
type Cache interface {
	Get(ctx context.Context, key string) (*models.Payload, bool)
	Put(ctx context.Context, key string, payload *models.Payload)
	Delete(ctx context.Context, key string)
}

// MemoryCache cache de recomendações em memória
type MemoryCache struct {
	data    map[string]*cachedPayload
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

type cachedPayload struct {
	payload   *models.Payload
	createdAt time.Time
}

// NewMemoryCache cria um novo cache em memória. maxSize <= 0 desativa o limite.
func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		data:    make(map[string]*cachedPayload),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get busca uma recomendação viva; entradas expiradas são removidas
func (c *MemoryCache) Get(_ context.Context, key string) (*models.Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(cached.createdAt) > c.ttl {
		delete(c.data, key)
		return nil, false
	}
	return cached.payload.Clone(), true
}

// Put armazena (ou substitui) a recomendação da chave
func (c *MemoryCache) Put(_ context.Context, key string, payload *models.Payload) {
	if payload == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && c.maxSize > 0 && len(c.data) >= c.maxSize {
		c.evict()
	}

	c.data[key] = &cachedPayload{
		payload:   payload.Clone(),
		createdAt: c.now(),
	}
}

// Delete remove a recomendação da chave
func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len retorna o número de entradas armazenadas (vivas ou não)
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// evict remove entradas expiradas e, se ainda cheio, a mais antiga
func (c *MemoryCache) evict() {
	now := c.now()
	for key, cached := range c.data {
		if now.Sub(cached.createdAt) > c.ttl {
			delete(c.data, key)
		}
	}

	if len(c.data) < c.maxSize {
		return
	}

	oldestKey := ""
	var oldest time.Time
	for key, cached := range c.data {
		if oldestKey == "" || cached.createdAt.Before(oldest) {
			oldest = cached.createdAt
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}
