package analytics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

// EventStore leitura dos eventos persistidos
type EventStore interface {
	RecentEvents(ctx context.Context, userID string, limits Limits) (*models.UserEvents, error)
	RecentHeatmapEvents(ctx context.Context, userID, eventType string, since time.Time, limit int) ([]models.HeatmapEvent, error)
}

// Reader monta digests e resumos de comportamento a partir do store
type Reader struct {
	store  EventStore
	limits Limits
	now    func() time.Time
}

// NewReader cria um reader com os limites padrão
func NewReader(store EventStore) *Reader {
	return &Reader{
		store:  store,
		limits: DefaultLimits,
		now:    time.Now,
	}
}

// Digest lê os eventos recentes do usuário e os resume num digest
func (r *Reader) Digest(ctx context.Context, userID string, authenticated bool) (*models.AnalyticsDigest, error) {
	ctx, span := otel.Tracer("analytics").Start(ctx, "BuildDigest")
	defer span.End()

	events, err := r.store.RecentEvents(ctx, userID, r.limits)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	digest := BuildDigest(events, userID, authenticated)
	span.SetAttributes(
		attribute.Int("analytics.heatmap_events", len(events.HeatmapEvents)),
		attribute.Int("analytics.element_clicks", len(digest.ElementClicks)),
		attribute.Int("analytics.sections", len(digest.SectionVisibility)),
	)
	return digest, nil
}

// Summary resumo de comportamento do usuário. Usuários anônimos recebem um
// resumo vazio com densidade média.
func (r *Reader) Summary(ctx context.Context, userID string) (*models.BehaviorSummary, error) {
	if models.IsAnonymous(userID) {
		summary := &models.BehaviorSummary{
			TopSections:      []models.ElementEngagement{},
			SuggestedContent: []string{},
		}
		summary.LayoutPreferences.ContentDensity = "medium"
		return summary, nil
	}

	clicks, err := r.store.RecentHeatmapEvents(ctx, userID, models.EventTypeClick, r.now().Add(-SummaryClickWindow), SummaryEventLimit)
	if err != nil {
		return nil, err
	}
	scrolls, err := r.store.RecentHeatmapEvents(ctx, userID, models.EventTypeScroll, time.Time{}, SummaryEventLimit)
	if err != nil {
		return nil, err
	}

	return Summarize(clicks, scrolls), nil
}
