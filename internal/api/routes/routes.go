package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/prefeitura-rio/app-personalizacao/internal/api/handlers"
	"github.com/prefeitura-rio/app-personalizacao/internal/config"
	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/metrics"
	middlewares "github.com/prefeitura-rio/app-personalizacao/internal/middleware"
)

// Dependencies colaboradores dos handlers
type Dependencies struct {
	Store       handlers.EventStore
	Heatmap     handlers.HeatmapQueue
	Reader      handlers.BehaviorReader
	Recommender handlers.Recommender
	Checks      map[string]handlers.CheckFunc
}

func SetupRouter(cfg *config.Config, log logger.Logger, deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		middlewares.RequestLogger(log),
		middlewares.RequestTiming(),
		metrics.Middleware(),
		corsMiddleware(),
		middlewares.JWTAuthMiddleware(middlewares.JWTConfig{
			Secret:     cfg.JWTSecret,
			CookieName: cfg.AuthCookieName,
		}),
		middlewares.ExtractUserContext(),
	)

	healthHandler := handlers.NewHealthHandler(deps.Checks)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Store, deps.Heatmap, deps.Reader)
	personalizationHandler := handlers.NewPersonalizationHandler(deps.Recommender, deps.Reader, cfg.Prioritization.Threshold)

	r.GET("/liveness", healthHandler.Liveness)
	r.GET("/readiness", healthHandler.Readiness)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	{
		ingest := api.Group("/analytics")
		ingest.Use(middlewares.NewRateLimiter(cfg.Analytics.RateLimitRPS, cfg.Analytics.RateLimitBurst).Middleware())
		{
			ingest.POST("/pageview", analyticsHandler.TrackPageView)
			ingest.POST("/heatmap", analyticsHandler.TrackHeatmapEvent)
			ingest.POST("/vitals", analyticsHandler.TrackWebVital)
		}
		api.GET("/analytics/user-data", analyticsHandler.GetUserData)

		personalization := api.Group("/personalization")
		{
			personalization.POST("/recommendations", personalizationHandler.PostRecommendations)
			personalization.GET("/recommendations", personalizationHandler.GetRecommendations)
			personalization.DELETE("/recommendations", personalizationHandler.DeleteRecommendations)
			personalization.GET("/behavior", personalizationHandler.GetBehavior)
			personalization.POST("/prioritize", personalizationHandler.Prioritize)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-User-ID, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
