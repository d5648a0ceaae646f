package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prefeitura-rio/app-personalizacao/internal/analytics"
	"github.com/prefeitura-rio/app-personalizacao/internal/config"
	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation"
)

type RefreshConfig struct {
	Since   time.Duration
	Limit   int
	Workers int
	DryRun  bool
}

type RefreshStats struct {
	Total     int64
	Processed int64
	Fallbacks int64
	Errors    int64
	StartTime time.Time
}

type userLister interface {
	ActiveUsers(ctx context.Context, since time.Time, limit int) ([]string, error)
}

type digestReader interface {
	Digest(ctx context.Context, userID string, authenticated bool) (*models.AnalyticsDigest, error)
}

type recommender interface {
	Generate(ctx context.Context, req recommendation.Request) (*recommendation.Result, error)
}

// Refresher regenera as recomendações dos usuários ativos
type Refresher struct {
	config    *RefreshConfig
	users     userLister
	digests   digestReader
	generator recommender
	log       logger.Logger
	stats     *RefreshStats
	now       func() time.Time
}

func main() {
	since := flag.Duration("since", 24*time.Hour, "Janela de atividade considerada")
	limit := flag.Int("limit", 500, "Máximo de usuários")
	workers := flag.Int("workers", 3, "Workers paralelos")
	dryRun := flag.Bool("dry-run", false, "Lista os usuários sem gerar recomendações")

	flag.Parse()

	cfg := config.LoadConfig()
	appLog, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	if cfg.RedisAddress == "" && !*dryRun {
		log.Fatalf("REDIS_ADDRESS é obrigatório: sem cache compartilhado as recomendações geradas se perdem")
	}

	db, err := analytics.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Erro ao conectar no Postgres: %v", err)
	}
	defer db.Close()
	store := analytics.NewStore(db)

	ctx := context.Background()
	comps, err := recommendation.NewFromConfig(ctx, cfg, appLog)
	if err != nil {
		log.Fatalf("Erro ao configurar recomendações: %v", err)
	}
	defer comps.Close()

	refresher := NewRefresher(&RefreshConfig{
		Since:   *since,
		Limit:   *limit,
		Workers: *workers,
		DryRun:  *dryRun,
	}, store, analytics.NewReader(store), comps.Generator, appLog)

	if err := refresher.Run(ctx); err != nil {
		log.Fatalf("Erro na atualização: %v", err)
	}
}

func NewRefresher(cfg *RefreshConfig, users userLister, digests digestReader, generator recommender, log logger.Logger) *Refresher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Refresher{
		config:    cfg,
		users:     users,
		digests:   digests,
		generator: generator,
		log:       log,
		stats:     &RefreshStats{StartTime: time.Now()},
		now:       time.Now,
	}
}

func (r *Refresher) Run(ctx context.Context) error {
	r.log.Info("Iniciando atualização de recomendações",
		logger.Duration("since", r.config.Since),
		logger.Int("limit", r.config.Limit),
		logger.Int("workers", r.config.Workers),
		logger.Bool("dry_run", r.config.DryRun),
	)

	userIDs, err := r.users.ActiveUsers(ctx, r.now().Add(-r.config.Since), r.config.Limit)
	if err != nil {
		return fmt.Errorf("erro ao listar usuários ativos: %w", err)
	}
	atomic.StoreInt64(&r.stats.Total, int64(len(userIDs)))

	if r.config.DryRun {
		for _, id := range userIDs {
			r.log.Info("Usuário ativo", logger.String("user_id", id))
		}
		r.printStats()
		return nil
	}

	var wg sync.WaitGroup
	userChan := make(chan string, r.config.Workers*2)

	for i := 0; i < r.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for userID := range userChan {
				if err := r.processUser(ctx, userID); err != nil {
					r.log.Warn("Falha ao atualizar usuário",
						logger.Int("worker", workerID),
						logger.String("user_id", userID),
						logger.Error(err))
					atomic.AddInt64(&r.stats.Errors, 1)
				}
			}
		}(i)
	}

	for _, userID := range userIDs {
		select {
		case userChan <- userID:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(userChan)
	wg.Wait()

	r.printStats()
	return ctx.Err()
}

func (r *Refresher) processUser(ctx context.Context, userID string) error {
	digest, err := r.digests.Digest(ctx, userID, true)
	if err != nil {
		return err
	}

	res, err := r.generator.Generate(ctx, recommendation.Request{
		Digest:        digest,
		UserID:        userID,
		Authenticated: true,
		ForceRefresh:  true,
	})
	if err != nil {
		return err
	}

	if res.Source == recommendation.SourceFallback {
		atomic.AddInt64(&r.stats.Fallbacks, 1)
	}
	atomic.AddInt64(&r.stats.Processed, 1)
	return nil
}

func (r *Refresher) printStats() {
	r.log.Info("Atualização concluída",
		logger.Int64("total", atomic.LoadInt64(&r.stats.Total)),
		logger.Int64("processed", atomic.LoadInt64(&r.stats.Processed)),
		logger.Int64("fallbacks", atomic.LoadInt64(&r.stats.Fallbacks)),
		logger.Int64("errors", atomic.LoadInt64(&r.stats.Errors)),
		logger.Duration("elapsed", time.Since(r.stats.StartTime)),
	)
}
