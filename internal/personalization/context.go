// Package personalization mantém a recomendação corrente de um usuário no cliente
// e liga os contadores locais de interação à recomendação do servidor.
package personalization

import (
	"context"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation"
)

const (
	// DefaultRefreshThrottle intervalo mínimo entre atualizações não forçadas
	DefaultRefreshThrottle = 5 * time.Minute
	// BehaviorThreshold ações significativas antes de forçar uma atualização
	BehaviorThreshold = 5
)

// Context guarda a recomendação corrente de um usuário
type Context struct {
	mu            sync.Mutex
	refreshMu     sync.Mutex
	source        Source
	snapshots     SnapshotStore
	userID        string
	authenticated bool
	payload       *models.Payload
	lastRefresh   time.Time
	behaviorCount int
	throttle      time.Duration
	now           func() time.Time
	log           logger.Logger
}

// ContextOption configura um Context
type ContextOption func(*Context)

// WithUser define o usuário inicial
func WithUser(userID string, authenticated bool) ContextOption {
	return func(c *Context) {
		c.userID = models.CacheKey(userID)
		c.authenticated = authenticated
	}
}

// WithRefreshThrottle define o intervalo mínimo entre atualizações não forçadas
func WithRefreshThrottle(d time.Duration) ContextOption {
	return func(c *Context) { c.throttle = d }
}

// WithContextLogger define o logger
func WithContextLogger(l logger.Logger) ContextOption {
	return func(c *Context) { c.log = l }
}

// NewContext cria um Context. snapshots pode ser nil.
func NewContext(source Source, snapshots SnapshotStore, opts ...ContextOption) *Context {
	c := &Context{
		source:    source,
		snapshots: snapshots,
		userID:    models.AnonymousUserID,
		throttle:  DefaultRefreshThrottle,
		now:       time.Now,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recommendations cópia da recomendação corrente (nil antes da primeira atualização)
func (c *Context) Recommendations() *models.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payload.Clone()
}

// User usuário corrente e seu estado de autenticação
func (c *Context) User() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, c.authenticated
}

// Refresh atualiza a recomendação. Sem force, respeita o throttle e tenta o
// snapshot antes da fonte. Se a fonte falhar, os padrões do estado de
// autenticação passam a valer e o erro é retornado.
func (c *Context) Refresh(ctx context.Context, force bool) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.Lock()
	userID, authenticated := c.userID, c.authenticated
	last := c.lastRefresh
	c.mu.Unlock()

	now := c.now()
	if !force {
		if !last.IsZero() && now.Sub(last) < c.throttle {
			c.log.Debug("Atualização ignorada pelo throttle",
				logger.Duration("since_last_refresh", now.Sub(last)))
			return nil
		}

		if c.snapshots != nil {
			if cached, ok := c.snapshots.Load(userID); ok {
				if cached.MatchesAuth(authenticated) {
					c.mu.Lock()
					c.payload = cached
					c.mu.Unlock()
					return nil
				}
				// snapshot de outro estado de autenticação: descarta e regenera
				c.log.Debug("Snapshot com estado de autenticação divergente",
					logger.String("user_id", userID))
				if err := c.snapshots.Clear(); err != nil {
					c.log.Warn("Falha ao remover snapshot", logger.Error(err))
				}
				force = true
			}
		}
	}

	c.log.Debug("Atualizando recomendações",
		logger.String("user_id", userID),
		logger.Bool("force", force))

	payload, err := c.source.Recommendations(ctx, userID, authenticated, force)
	if err == nil && payload == nil {
		err = ErrInvalidResponse
	}
	if err != nil {
		c.log.Warn("Falha ao atualizar recomendações, usando padrões",
			logger.String("user_id", userID),
			logger.Error(err))
		defaults := recommendation.DefaultPayload(authenticated)
		c.mu.Lock()
		c.payload = defaults
		c.mu.Unlock()
		c.persist(userID, defaults)
		return err
	}

	c.persist(userID, payload)
	c.mu.Lock()
	c.payload = payload.Clone()
	c.lastRefresh = now
	c.behaviorCount = 0
	c.mu.Unlock()
	return nil
}

// TrackBehaviorChange conta uma ação significativa; ao atingir BehaviorThreshold
// força uma atualização. Retorna true quando a atualização foi disparada.
func (c *Context) TrackBehaviorChange(ctx context.Context) (bool, error) {
	c.mu.Lock()
	c.behaviorCount++
	count := c.behaviorCount
	c.mu.Unlock()

	if count < BehaviorThreshold {
		return false, nil
	}

	c.log.Debug("Limite de mudanças de comportamento atingido", logger.Int("count", count))
	return true, c.Refresh(ctx, true)
}

// SetUser troca o usuário corrente. Mudança de usuário ou de estado de
// autenticação força a atualização; caso contrário segue o fluxo normal.
func (c *Context) SetUser(ctx context.Context, userID string, authenticated bool) error {
	userID = models.CacheKey(userID)

	c.mu.Lock()
	changed := userID != c.userID
	c.userID = userID
	c.authenticated = authenticated
	stale := c.payload != nil && !c.payload.MatchesAuth(authenticated)
	c.mu.Unlock()

	return c.Refresh(ctx, changed || stale)
}

func (c *Context) persist(userID string, payload *models.Payload) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Save(userID, payload); err != nil {
		c.log.Warn("Falha ao salvar snapshot de recomendações", logger.Error(err))
	}
}
