package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewStore(sqlx.NewDb(db, "postgres")), mock
}

func TestStore_InsertPageView(t *testing.T) {
	store, mock := newMockStore(t)
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO page_views").
		WithArgs("pv-1", "u1", "/pricing", "Mozilla", "10.0.0.1", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertPageView(context.Background(), &models.PageView{
		ID:        "pv-1",
		UserID:    models.UserIDPtr("u1"),
		Path:      "/pricing",
		UserAgent: "Mozilla",
		IPAddress: "10.0.0.1",
		Timestamp: ts,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertPageViewAnonymous(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO page_views").
		WithArgs("pv-1", nil, "/", "", "", sqlmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err := store.InsertPageView(context.Background(), &models.PageView{
		ID:        "pv-1",
		UserID:    models.UserIDPtr(models.AnonymousUserID),
		Path:      "/",
		Timestamp: time.Now(),
	})
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertWebVital(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO web_vitals").
		WithArgs("v-1", nil, "LCP", 1234.5, "/", "Mozilla", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertWebVital(context.Background(), &models.WebVital{
		ID: "v-1", Name: "LCP", Value: 1234.5, Path: "/", UserAgent: "Mozilla", Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertHeatmapEventsChunks(t *testing.T) {
	store, mock := newMockStore(t)

	events := make([]models.HeatmapEvent, 120)
	for i := range events {
		events[i] = models.HeatmapEvent{ID: "e", Path: "/", EventType: models.EventTypeClick, Timestamp: time.Now()}
	}
	events[0].ElementInfo = []byte(`{"identifier":"feature-a"}`)

	for _, rows := range []int64{50, 50, 20} {
		mock.ExpectExec("INSERT INTO heatmap_events").WillReturnResult(sqlmock.NewResult(0, rows))
	}

	require.NoError(t, store.InsertHeatmapEvents(context.Background(), events))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertHeatmapEventsEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	require.NoError(t, store.InsertHeatmapEvents(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentEventsAnonymous(t *testing.T) {
	store, mock := newMockStore(t)
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM page_views WHERE user_id IS NULL").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "path", "user_agent", "ip_address", "timestamp"}).
			AddRow("pv-1", nil, "/", "Mozilla", "", ts))

	mock.ExpectQuery("FROM heatmap_events WHERE user_id IS NULL").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "path", "event_type", "x", "y", "element_info", "scroll_percentage", "visible_sections", "timestamp",
		}).
			AddRow("h-1", nil, "/", "click", 10.0, 20.0, []byte(`{"identifier":"signup"}`), nil, nil, ts).
			AddRow("h-2", nil, "/", "scroll", nil, nil, nil, 55.0, "hero,pricing", ts))

	mock.ExpectQuery("FROM web_vitals WHERE user_id IS NULL").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "value", "path", "user_agent", "timestamp"}))

	events, err := store.RecentEvents(context.Background(), "", DefaultLimits)
	require.NoError(t, err)

	require.Len(t, events.PageViews, 1)
	assert.Nil(t, events.PageViews[0].UserID)
	require.Len(t, events.HeatmapEvents, 2)
	assert.JSONEq(t, `{"identifier":"signup"}`, string(events.HeatmapEvents[0].ElementInfo))
	assert.Nil(t, events.HeatmapEvents[1].ElementInfo)
	require.NotNil(t, events.HeatmapEvents[1].VisibleSections)
	assert.Equal(t, "hero,pricing", *events.HeatmapEvents[1].VisibleSections)
	assert.Empty(t, events.WebVitals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentEventsUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM page_views WHERE user_id = ").
		WithArgs("u1", 5).
		WillReturnError(errors.New("boom"))

	_, err := store.RecentEvents(context.Background(), "u1", Limits{PageViews: 5, HeatmapEvents: 5, WebVitals: 5})
	assert.ErrorContains(t, err, "page views")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentHeatmapEvents(t *testing.T) {
	store, mock := newMockStore(t)
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM heatmap_events WHERE user_id = .+ AND event_type = .+ AND timestamp >= ").
		WithArgs("u1", "click", since, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "path", "event_type", "x", "y", "element_info", "scroll_percentage", "visible_sections", "timestamp"}))

	events, err := store.RecentHeatmapEvents(context.Background(), "u1", models.EventTypeClick, since, 100)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ActiveUsers(t *testing.T) {
	store, mock := newMockStore(t)
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT user_id FROM").
		WithArgs(since, 10).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u2").AddRow("u1"))

	users, err := store.ActiveUsers(context.Background(), since, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u1"}, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFilter(t *testing.T) {
	where, args := userFilter(models.AnonymousUserID)
	assert.Equal(t, "user_id IS NULL", where)
	assert.Empty(t, args)

	where, args = userFilter("u1")
	assert.Equal(t, "user_id = $1", where)
	assert.Equal(t, []any{"u1"}, args)
}
