// Package recommendation gera, valida e armazena em cache as recomendações
// de personalização de cada usuário.
package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/metrics"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation/adapter"
)

const (
	DefaultTimeout                 = 30 * time.Second
	DefaultBreakerFailureThreshold = 5
	DefaultBreakerOpenTimeout      = 60 * time.Second

	breakerName = "recommendation-upstream"
)

// Source origem de uma recomendação entregue
type Source string

const (
	SourceUpstream Source = "upstream"
	SourceFallback Source = "fallback"
	SourceCache    Source = "cache"
)

// GeneratorConfig parâmetros do gerador
type GeneratorConfig struct {
	Timeout                 time.Duration
	DedupeInFlight          bool
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
}

// Request pedido de recomendação
type Request struct {
	Digest        *models.AnalyticsDigest
	UserID        string
	Authenticated bool
	ForceRefresh  bool
}

// Result recomendação entregue com sua origem.
// Reason guarda a falha do provedor quando Source == SourceFallback.
type Result struct {
	Payload *models.Payload
	Source  Source
	Reason  error
}

// FromCache indica se a recomendação veio do cache
func (r *Result) FromCache() bool {
	return r.Source == SourceCache
}

// Generator produz recomendações a partir do digest de analytics.
// Falhas do provedor nunca chegam ao chamador: viram o fallback determinístico.
type Generator struct {
	upstream adapter.Upstream
	cache    Cache
	cfg      GeneratorConfig
	breaker  *gobreaker.CircuitBreaker[*models.Payload]
	group    singleflight.Group
	validate *validator.Validate
	log      logger.Logger
}

// NewGenerator cria um gerador. upstream nil equivale a provedor desativado.
func NewGenerator(upstream adapter.Upstream, cache Cache, cfg GeneratorConfig, log logger.Logger) *Generator {
	if upstream == nil {
		upstream = adapter.Disabled{}
	}
	if cache == nil {
		cache = NewMemoryCache(DefaultCacheTTL, 0)
	}
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BreakerFailureThreshold == 0 {
		cfg.BreakerFailureThreshold = DefaultBreakerFailureThreshold
	}
	if cfg.BreakerOpenTimeout <= 0 {
		cfg.BreakerOpenTimeout = DefaultBreakerOpenTimeout
	}

	g := &Generator{
		upstream: upstream,
		cache:    cache,
		cfg:      cfg,
		validate: validator.New(),
		log:      log.With(logger.String("provider", upstream.Name())),
	}

	metrics.BreakerState.WithLabelValues(breakerName).Set(0)
	g.breaker = gobreaker.NewCircuitBreaker[*models.Payload](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// provedor desativado e cancelamento do cliente não indicam falha do provedor
			return err == nil || errors.Is(err, adapter.ErrProviderDisabled) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.log.Info("Circuit breaker mudou de estado",
				logger.String("from", from.String()),
				logger.String("to", to.String()))
			metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return g
}

// Generate retorna a recomendação do usuário, do cache quando possível.
// Só retorna erro para digest inválido.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := g.validateDigest(req.Digest); err != nil {
		return nil, err
	}

	key := models.CacheKey(req.UserID)
	if !req.ForceRefresh {
		if res, ok := g.fromCache(ctx, key, req.Authenticated); ok {
			return res, nil
		}
	}

	if !g.cfg.DedupeInFlight {
		return g.generate(ctx, req, key), nil
	}

	// a chamada compartilhada não depende do cliente que a iniciou; o limite
	// vem do timeout do provedor
	flightKey := key + "|" + string(models.AuthStateFor(req.Authenticated))
	v, _, shared := g.group.Do(flightKey, func() (any, error) {
		return g.generate(context.WithoutCancel(ctx), req, key), nil
	})
	res := v.(*Result)
	if shared {
		out := *res
		out.Payload = res.Payload.Clone()
		return &out, nil
	}
	return res, nil
}

// Invalidate remove a recomendação em cache do usuário
func (g *Generator) Invalidate(ctx context.Context, userID string) {
	g.cache.Delete(ctx, models.CacheKey(userID))
}

// BreakerState estado atual do circuit breaker do provedor
func (g *Generator) BreakerState() gobreaker.State {
	return g.breaker.State()
}

func (g *Generator) validateDigest(digest *models.AnalyticsDigest) error {
	if digest == nil {
		return fmt.Errorf("%w: digest ausente", models.ErrInvalidDigest)
	}
	if err := g.validate.Struct(digest); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidDigest, err)
	}
	return nil
}

func (g *Generator) fromCache(ctx context.Context, key string, authenticated bool) (*Result, bool) {
	cached, ok := g.cache.Get(ctx, key)
	if !ok {
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	if !cached.MatchesAuth(authenticated) {
		metrics.CacheRequestsTotal.WithLabelValues("stale").Inc()
		return nil, false
	}

	metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	metrics.RecommendationsTotal.WithLabelValues(string(SourceCache)).Inc()
	return &Result{Payload: cached, Source: SourceCache}, true
}

func (g *Generator) generate(ctx context.Context, req Request, key string) *Result {
	ctx, span := otel.Tracer("recommendation").Start(ctx, "GenerateRecommendation")
	defer span.End()

	span.SetAttributes(
		attribute.String("recommendation.provider", g.upstream.Name()),
		attribute.Bool("recommendation.authenticated", req.Authenticated),
		attribute.Bool("recommendation.force_refresh", req.ForceRefresh),
	)

	res := &Result{Source: SourceUpstream}
	payload, err := g.callUpstream(ctx, req)
	if err != nil {
		span.RecordError(err)
		g.log.Warn("Falha ao gerar recomendação, usando fallback",
			logger.String("user_id", key),
			logger.Error(err))
		payload = Fallback(req.Digest, req.Authenticated)
		res.Source = SourceFallback
		res.Reason = err
	}

	payload.UserJourney.AuthState = models.AuthStateFor(req.Authenticated)
	g.cache.Put(context.WithoutCancel(ctx), key, payload)

	res.Payload = payload
	metrics.RecommendationsTotal.WithLabelValues(string(res.Source)).Inc()
	span.SetAttributes(attribute.String("recommendation.source", string(res.Source)))
	return res
}

// callUpstream chama o provedor com timeout atrás do circuit breaker.
// Toda falha é devolvida como *models.UpstreamError.
func (g *Generator) callUpstream(ctx context.Context, req Request) (*models.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	prompt := BuildPrompt(req.Digest, req.UserID, req.Authenticated)
	start := time.Now()

	payload, err := g.breaker.Execute(func() (*models.Payload, error) {
		raw, err := g.upstream.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}
		payload, err := ParsePayload(raw)
		if err != nil {
			return nil, &models.UpstreamError{Reason: "resposta inválida do provedor", Err: err}
		}
		return payload, nil
	})

	outcome := "success"
	if err != nil {
		err = classifyUpstreamError(err)
		outcome = "failure"
	}
	metrics.UpstreamDuration.WithLabelValues(g.upstream.Name(), outcome).Observe(time.Since(start).Seconds())

	return payload, err
}

func classifyUpstreamError(err error) error {
	var upstreamErr *models.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		return upstreamErr
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &models.UpstreamError{Reason: "circuit breaker aberto", Err: fmt.Errorf("%w: %v", models.ErrCircuitOpen, err)}
	case errors.Is(err, context.DeadlineExceeded):
		return &models.UpstreamError{Reason: "timeout do provedor", Err: err}
	case errors.Is(err, adapter.ErrProviderDisabled):
		return &models.UpstreamError{Reason: "provedor desativado", Err: err}
	default:
		return &models.UpstreamError{Reason: "chamada ao provedor falhou", Err: err}
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
