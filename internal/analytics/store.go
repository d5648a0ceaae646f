// Package analytics persiste os eventos de comportamento e os resume em digests
// consumidos pelo gerador de recomendações.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // driver PostgreSQL

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 5 * time.Minute
	DefaultPingTimeout     = 5 * time.Second

	// heatmapColumns colunas inseridas por evento de heatmap
	heatmapColumns = 10

	// insertBatchSize máximo de linhas por INSERT
	insertBatchSize = 50
)

// Limits quantos eventos recentes de cada tipo são lidos por usuário
type Limits struct {
	PageViews     int
	HeatmapEvents int
	WebVitals     int
}

// DefaultLimits limites usados na montagem do digest
var DefaultLimits = Limits{PageViews: 50, HeatmapEvents: 100, WebVitals: 50}

// Store acesso aos eventos de analytics no PostgreSQL
type Store struct {
	db *sqlx.DB
}

// NewStore cria o store sobre uma conexão existente
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// NewPostgresConnection abre o pool de conexões e verifica o banco
func NewPostgresConnection(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao verificar banco: %w", err)
	}

	return db, nil
}

// Ping verifica a conexão com o banco
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InsertPageView grava uma visita
func (s *Store) InsertPageView(ctx context.Context, pv *models.PageView) error {
	query := `
		INSERT INTO page_views (id, user_id, path, user_agent, ip_address, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, pv.ID, pv.UserID, pv.Path, pv.UserAgent, pv.IPAddress, pv.Timestamp)
	if err != nil {
		return fmt.Errorf("falha ao gravar page view: %w", err)
	}
	return nil
}

// InsertWebVital grava uma métrica de performance
func (s *Store) InsertWebVital(ctx context.Context, v *models.WebVital) error {
	query := `
		INSERT INTO web_vitals (id, user_id, name, value, path, user_agent, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query, v.ID, v.UserID, v.Name, v.Value, v.Path, v.UserAgent, v.Timestamp)
	if err != nil {
		return fmt.Errorf("falha ao gravar web vital: %w", err)
	}
	return nil
}

// InsertHeatmapEvents grava eventos de heatmap em INSERTs de até insertBatchSize linhas
func (s *Store) InsertHeatmapEvents(ctx context.Context, events []models.HeatmapEvent) error {
	for start := 0; start < len(events); start += insertBatchSize {
		end := min(start+insertBatchSize, len(events))
		if err := s.batchInsertHeatmap(ctx, events[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) batchInsertHeatmap(ctx context.Context, events []models.HeatmapEvent) error {
	if len(events) == 0 {
		return nil
	}

	args := make([]any, 0, len(events)*heatmapColumns)
	var sb strings.Builder
	sb.WriteString("INSERT INTO heatmap_events (id, user_id, path, event_type, x, y, " +
		"element_info, scroll_percentage, visible_sections, timestamp) VALUES ")

	for i := range events {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * heatmapColumns
		sb.WriteString("(")
		for col := 1; col <= heatmapColumns; col++ {
			if col > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+col)
		}
		sb.WriteString(")")

		e := events[i]
		args = append(args,
			e.ID, e.UserID, e.Path, e.EventType, e.X, e.Y,
			nullableJSON(e.ElementInfo), e.ScrollPercentage, e.VisibleSections, e.Timestamp,
		)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("falha ao gravar eventos de heatmap: %w", err)
	}
	return nil
}

// RecentEvents lê os eventos mais recentes do usuário.
// Usuário anônimo lê o bucket de eventos sem user_id.
func (s *Store) RecentEvents(ctx context.Context, userID string, limits Limits) (*models.UserEvents, error) {
	where, args := userFilter(userID)
	events := &models.UserEvents{
		PageViews:     []models.PageView{},
		HeatmapEvents: []models.HeatmapEvent{},
		WebVitals:     []models.WebVital{},
	}

	pvQuery := `SELECT id, user_id, path, user_agent, ip_address, timestamp FROM page_views WHERE ` +
		where + fmt.Sprintf(` ORDER BY timestamp DESC LIMIT $%d`, len(args)+1)
	if err := s.db.SelectContext(ctx, &events.PageViews, pvQuery, append(args, limits.PageViews)...); err != nil {
		return nil, fmt.Errorf("falha ao ler page views: %w", err)
	}

	heatmap, err := s.selectHeatmap(ctx, where, args, limits.HeatmapEvents)
	if err != nil {
		return nil, err
	}
	events.HeatmapEvents = heatmap

	vQuery := `SELECT id, user_id, name, value, path, user_agent, timestamp FROM web_vitals WHERE ` +
		where + fmt.Sprintf(` ORDER BY timestamp DESC LIMIT $%d`, len(args)+1)
	if err := s.db.SelectContext(ctx, &events.WebVitals, vQuery, append(args, limits.WebVitals)...); err != nil {
		return nil, fmt.Errorf("falha ao ler web vitals: %w", err)
	}

	return events, nil
}

// RecentHeatmapEvents lê eventos de um tipo a partir de since (zero = sem limite de data)
func (s *Store) RecentHeatmapEvents(ctx context.Context, userID, eventType string, since time.Time, limit int) ([]models.HeatmapEvent, error) {
	where, args := userFilter(userID)
	where += fmt.Sprintf(" AND event_type = $%d", len(args)+1)
	args = append(args, eventType)
	if !since.IsZero() {
		where += fmt.Sprintf(" AND timestamp >= $%d", len(args)+1)
		args = append(args, since)
	}
	return s.selectHeatmap(ctx, where, args, limit)
}

// ActiveUsers usuários autenticados com eventos desde since, mais recentes primeiro
func (s *Store) ActiveUsers(ctx context.Context, since time.Time, limit int) ([]string, error) {
	query := `
		SELECT user_id FROM (
			SELECT user_id, MAX(timestamp) AS last_seen FROM page_views
			WHERE user_id IS NOT NULL AND timestamp >= $1
			GROUP BY user_id
			UNION ALL
			SELECT user_id, MAX(timestamp) AS last_seen FROM heatmap_events
			WHERE user_id IS NOT NULL AND timestamp >= $1
			GROUP BY user_id
		) activity
		GROUP BY user_id
		ORDER BY MAX(last_seen) DESC
		LIMIT $2
	`
	users := []string{}
	if err := s.db.SelectContext(ctx, &users, query, since, limit); err != nil {
		return nil, fmt.Errorf("falha ao listar usuários ativos: %w", err)
	}
	return users, nil
}

type heatmapRow struct {
	ID               string    `db:"id"`
	UserID           *string   `db:"user_id"`
	Path             string    `db:"path"`
	EventType        string    `db:"event_type"`
	X                *float64  `db:"x"`
	Y                *float64  `db:"y"`
	ElementInfo      []byte    `db:"element_info"`
	ScrollPercentage *float64  `db:"scroll_percentage"`
	VisibleSections  *string   `db:"visible_sections"`
	Timestamp        time.Time `db:"timestamp"`
}

func (s *Store) selectHeatmap(ctx context.Context, where string, args []any, limit int) ([]models.HeatmapEvent, error) {
	query := `SELECT id, user_id, path, event_type, x, y, element_info, scroll_percentage, visible_sections, timestamp
		FROM heatmap_events WHERE ` + where + fmt.Sprintf(` ORDER BY timestamp DESC LIMIT $%d`, len(args)+1)

	var rows []heatmapRow
	if err := s.db.SelectContext(ctx, &rows, query, append(args, limit)...); err != nil {
		return nil, fmt.Errorf("falha ao ler eventos de heatmap: %w", err)
	}

	events := make([]models.HeatmapEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, models.HeatmapEvent{
			ID:               r.ID,
			UserID:           r.UserID,
			Path:             r.Path,
			EventType:        r.EventType,
			X:                r.X,
			Y:                r.Y,
			ElementInfo:      r.ElementInfo,
			ScrollPercentage: r.ScrollPercentage,
			VisibleSections:  r.VisibleSections,
			Timestamp:        r.Timestamp,
		})
	}
	return events, nil
}

// userFilter cláusula WHERE do usuário; anônimo corresponde a user_id nulo
func userFilter(userID string) (string, []any) {
	if models.IsAnonymous(userID) {
		return "user_id IS NULL", nil
	}
	return "user_id = $1", []any{userID}
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
