// Package metrics registra as métricas Prometheus do serviço.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecommendationsTotal recomendações servidas por origem (upstream, fallback, cache)
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalization_recommendations_total",
			Help: "Recomendações servidas por origem",
		},
		[]string{"source"},
	)

	// UpstreamDuration latência da chamada ao provedor de modelo
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "personalization_upstream_duration_seconds",
			Help:    "Latência da chamada ao provedor de recomendações",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "outcome"},
	)

	// CacheRequestsTotal consultas ao cache de recomendações (hit, miss, stale)
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalization_cache_requests_total",
			Help: "Consultas ao cache de recomendações",
		},
		[]string{"result"},
	)

	// BreakerState estado do circuit breaker (0=fechado, 1=meio-aberto, 2=aberto)
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "personalization_breaker_state",
			Help: "Estado do circuit breaker do provedor",
		},
		[]string{"name"},
	)

	// AnalyticsEventsTotal eventos de analytics aceitos por tipo
	AnalyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Eventos de analytics aceitos",
		},
		[]string{"type"},
	)

	// AnalyticsEventsDropped eventos descartados por buffer cheio
	AnalyticsEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_events_dropped_total",
			Help: "Eventos de heatmap descartados por buffer cheio",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Requisições HTTP",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duração das requisições HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Middleware registra contagem e duração por rota
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler expõe as métricas no formato Prometheus
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
