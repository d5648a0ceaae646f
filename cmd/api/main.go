package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/prefeitura-rio/app-personalizacao/docs"
	"github.com/prefeitura-rio/app-personalizacao/internal/analytics"
	"github.com/prefeitura-rio/app-personalizacao/internal/api/handlers"
	"github.com/prefeitura-rio/app-personalizacao/internal/api/routes"
	"github.com/prefeitura-rio/app-personalizacao/internal/config"
	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/observability"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation"
)

// @title           Personalização API
// @version         1.0
// @description     API de analytics comportamental e recomendações de personalização geradas por modelo de linguagem
// @termsOfService  http://swagger.io/terms/

// @contact.name   Prefeitura do Rio de Janeiro
// @contact.url    https://prefeitura.rio
// @contact.email  contato@prefeitura.rio

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.LoadConfig()

	appLog, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	if err := cfg.Validate(); err != nil {
		appLog.Error("Configuração inválida", logger.Error(err))
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		appLog.Error("DATABASE_URL é obrigatório")
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)
	shutdownTracer := observability.InitTracer(cfg, appLog)
	defer shutdownTracer()

	ctx := context.Background()

	db, err := analytics.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		appLog.Error("Erro ao conectar no Postgres", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	store := analytics.NewStore(db)

	comps, err := recommendation.NewFromConfig(ctx, cfg, appLog)
	if err != nil {
		appLog.Error("Erro ao configurar recomendações", logger.Error(err))
		os.Exit(1)
	}
	defer comps.Close()

	buffer := analytics.NewBuffer(cfg.Analytics.BufferSize)
	writer := analytics.NewWriter(buffer, store, appLog, cfg.Analytics.FlushInterval, cfg.Analytics.FlushThreshold)
	writer.Start()

	checks := map[string]handlers.CheckFunc{
		"postgres": store.Ping,
	}
	if comps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return comps.Redis.Ping(ctx).Err() }
	}

	r := routes.SetupRouter(cfg, appLog, routes.Dependencies{
		Store:       store,
		Heatmap:     buffer,
		Reader:      analytics.NewReader(store),
		Recommender: comps.Generator,
		Checks:      checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("Servidor iniciado", logger.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Erro ao iniciar servidor", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Erro ao encerrar servidor", logger.Error(err))
	}

	// eventos aceitos antes do Shutdown ainda são gravados
	writer.Stop()
	appLog.Info("Servidor encerrado")
}
