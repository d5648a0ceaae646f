package prioritization

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

// DefaultDebounce atraso do reordenamento após a última interação
const DefaultDebounce = 100 * time.Millisecond

// Tracker mantém os contadores de interação de uma lista e a ordem priorizada.
// Cada lista tem o seu tracker; os contadores só zeram com um novo tracker.
type Tracker struct {
	mu          sync.Mutex
	items       []models.Item
	current     []models.Item
	known       map[string]struct{}
	counts      map[string]int
	threshold   float64
	debounce    time.Duration
	sectionType string
	onReorder   func([]models.Item)
	timer       *ScopedTimer
	closed      bool
	log         logger.Logger
}

// TrackerOption configura um Tracker
type TrackerOption func(*Tracker)

// WithThreshold define a faixa de histerese
func WithThreshold(threshold float64) TrackerOption {
	return func(t *Tracker) { t.threshold = clampThreshold(threshold) }
}

// WithDebounce define o atraso do reordenamento
func WithDebounce(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.debounce = d }
}

// WithSectionType define o prefixo de tipo de seção (ex: "feature" para "feature-pricing")
func WithSectionType(sectionType string) TrackerOption {
	return func(t *Tracker) { t.sectionType = sectionType }
}

// WithOnReorder registra um callback chamado após cada recomputação
func WithOnReorder(fn func([]models.Item)) TrackerOption {
	return func(t *Tracker) { t.onReorder = fn }
}

// WithLogger define o logger do tracker
func WithLogger(l logger.Logger) TrackerOption {
	return func(t *Tracker) { t.log = l }
}

// NewTracker cria um tracker para a lista informada. A ordem padrão é dada por Item.Order.
func NewTracker(items []models.Item, opts ...TrackerOption) *Tracker {
	ordered := make([]models.Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	t := &Tracker{
		items:     ordered,
		current:   append([]models.Item(nil), ordered...),
		known:     make(map[string]struct{}, len(ordered)),
		counts:    make(map[string]int, len(ordered)),
		threshold: DefaultThreshold,
		debounce:  DefaultDebounce,
		log:       logger.NewNop(),
	}
	for _, item := range ordered {
		t.known[item.ID] = struct{}{}
	}
	for _, opt := range opts {
		opt(t)
	}

	t.timer = NewScopedTimer(t.debounce, t.recompute)
	return t
}

// RecordInteraction incrementa o contador do item e agenda o reordenamento.
// Ids desconhecidos são ignorados e retornam false.
func (t *Tracker) RecordInteraction(id string) bool {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return false
	}
	if _, ok := t.known[id]; !ok {
		t.mu.Unlock()
		t.log.Debug("Interação com item desconhecido ignorada", logger.String("id", id))
		return false
	}
	t.counts[id]++
	t.mu.Unlock()

	t.timer.Trigger()
	return true
}

// RecordElement registra a interação a partir de um identificador de elemento,
// removendo o prefixo do tipo de seção quando presente.
func (t *Tracker) RecordElement(identifier string) bool {
	return t.RecordInteraction(t.StripSectionType(identifier))
}

// StripSectionType remove o prefixo "<sectionType>-" do identificador
func (t *Tracker) StripSectionType(identifier string) string {
	if t.sectionType == "" {
		return identifier
	}
	return strings.TrimPrefix(identifier, t.sectionType+"-")
}

// SectionType retorna o tipo de seção do tracker
func (t *Tracker) SectionType() string {
	return t.sectionType
}

// ApplyCounts sobrescreve os contadores locais com contagens observadas no servidor
// e recomputa a ordem imediatamente, sem chamar o callback de reordenamento.
// Um reordenamento pendente de interações continua agendado. Ids desconhecidos
// são ignorados.
func (t *Tracker) ApplyCounts(counts map[string]int) int {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}
	applied := 0
	for id, c := range counts {
		if _, ok := t.known[id]; !ok {
			continue
		}
		if c < 0 {
			c = 0
		}
		t.counts[id] = c
		applied++
	}
	t.mu.Unlock()

	if applied > 0 {
		t.reorder(false)
	}
	return applied
}

// Flush cancela o debounce pendente e recomputa a ordem agora
func (t *Tracker) Flush() {
	t.timer.Cancel()
	t.reorder(true)
}

// Order retorna os ids na ordem priorizada atual
func (t *Tracker) Order() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.IDs(t.current)
}

// Items retorna uma cópia da lista na ordem priorizada atual
func (t *Tracker) Items() []models.Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Item(nil), t.current...)
}

// Counts retorna uma cópia dos contadores
func (t *Tracker) Counts() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int, len(t.counts))
	for id, c := range t.counts {
		out[id] = c
	}
	return out
}

// Ratios retorna a razão de engajamento atual de cada item
func (t *Tracker) Ratios() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Ratios(t.items, t.counts)
}

// Close cancela o reordenamento pendente; depois disso nenhuma recomputação ocorre
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.timer.Close()
}

func (t *Tracker) recompute() {
	t.reorder(true)
}

func (t *Tracker) reorder(notify bool) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.current = Prioritize(t.items, t.counts, t.threshold)
	snapshot := append([]models.Item(nil), t.current...)
	hook := t.onReorder
	t.mu.Unlock()

	if !notify {
		return
	}

	if hook != nil {
		hook(snapshot)
	}
}
