package personalization

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/prioritization"
)

// DefaultServerRefreshInterval intervalo mínimo entre atualizações disparadas por reordenamento
const DefaultServerRefreshInterval = 5 * time.Second

// SessionConfig parâmetros de uma sessão
type SessionConfig struct {
	SectionType           string
	Threshold             float64
	Debounce              time.Duration
	ServerRefreshInterval time.Duration
	Logger                logger.Logger
}

// Session liga uma lista priorizada à recomendação do usuário.
// Após cada reordenamento a sessão conta uma mudança de comportamento e, se
// passou ServerRefreshInterval desde a última, pede uma atualização não forçada.
type Session struct {
	pctx    *Context
	tracker *prioritization.Tracker
	cfg     SessionConfig
	log     logger.Logger
	now     func() time.Time

	mu                sync.Mutex
	lastServerRefresh time.Time
	closed            bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession cria a sessão para a lista de itens
func NewSession(pctx *Context, items []models.Item, cfg SessionConfig) *Session {
	if cfg.Threshold == 0 {
		cfg.Threshold = prioritization.DefaultThreshold
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = prioritization.DefaultDebounce
	}
	if cfg.ServerRefreshInterval <= 0 {
		cfg.ServerRefreshInterval = DefaultServerRefreshInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		pctx:   pctx,
		cfg:    cfg,
		log:    cfg.Logger,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
	s.lastServerRefresh = s.now()

	s.tracker = prioritization.NewTracker(items,
		prioritization.WithThreshold(cfg.Threshold),
		prioritization.WithDebounce(cfg.Debounce),
		prioritization.WithSectionType(cfg.SectionType),
		prioritization.WithLogger(cfg.Logger),
		prioritization.WithOnReorder(s.onReorder),
	)
	return s
}

// RecordInteraction registra uma interação com o item
func (s *Session) RecordInteraction(id string) bool {
	return s.tracker.RecordInteraction(id)
}

// RecordElement registra uma interação a partir do identificador do elemento
// (ex: "feature-pricing"); elementos de outro tipo de seção são ignorados
func (s *Session) RecordElement(identifier string) bool {
	if s.cfg.SectionType != "" && !strings.Contains(identifier, s.cfg.SectionType) {
		return false
	}
	return s.tracker.RecordElement(identifier)
}

// PrioritizedOrder ids na ordem priorizada atual
func (s *Session) PrioritizedOrder() []string {
	return s.tracker.Order()
}

// PrioritizedItems itens na ordem priorizada atual
func (s *Session) PrioritizedItems() []models.Item {
	return s.tracker.Items()
}

// Recommendations recomendação corrente do usuário
func (s *Session) Recommendations() *models.Payload {
	return s.pctx.Recommendations()
}

// RefreshRecommendations atualiza a recomendação e semeia os contadores com
// as contagens observadas no servidor
func (s *Session) RefreshRecommendations(ctx context.Context, force bool) error {
	err := s.pctx.Refresh(ctx, force)
	s.seedFromPayload(s.pctx.Recommendations())
	return err
}

// SeedFromSummary aplica as contagens do resumo de comportamento aos contadores locais
func (s *Session) SeedFromSummary(summary *models.BehaviorSummary) int {
	if summary == nil {
		return 0
	}
	counts := make(map[string]int)
	for _, el := range summary.TopSections {
		if s.relevant(el.Identifier) && el.Count > 0 {
			counts[s.tracker.StripSectionType(el.Identifier)] = el.Count
		}
	}
	return s.applyCounts(counts)
}

// Close cancela o reordenamento pendente e aguarda atualizações em andamento
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.tracker.Close()
	s.cancel()
	s.wg.Wait()
}

func (s *Session) seedFromPayload(payload *models.Payload) int {
	if payload == nil {
		return 0
	}
	counts := make(map[string]int)
	for _, section := range payload.TopSections {
		if s.relevant(section.Identifier) && section.Count > 0 {
			counts[s.tracker.StripSectionType(section.Identifier)] = section.Count
		}
	}
	return s.applyCounts(counts)
}

func (s *Session) relevant(identifier string) bool {
	return identifier != "" && strings.Contains(identifier, s.cfg.SectionType)
}

func (s *Session) applyCounts(counts map[string]int) int {
	if len(counts) == 0 {
		return 0
	}
	return s.tracker.ApplyCounts(counts)
}

func (s *Session) onReorder(_ []models.Item) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	now := s.now()
	due := now.Sub(s.lastServerRefresh) > s.cfg.ServerRefreshInterval
	if due {
		s.lastServerRefresh = now
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		refreshed, err := s.pctx.TrackBehaviorChange(s.ctx)
		if !refreshed && due {
			err = s.pctx.Refresh(s.ctx, false)
			refreshed = true
		}
		if err != nil {
			s.log.Warn("Falha ao atualizar recomendações após reordenamento", logger.Error(err))
		}
		if refreshed {
			s.seedFromPayload(s.pctx.Recommendations())
		}
	}()
}
