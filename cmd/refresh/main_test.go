package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation"
)

type fakeUsers struct {
	ids   []string
	since time.Time
	limit int
	err   error
}

func (f *fakeUsers) ActiveUsers(_ context.Context, since time.Time, limit int) ([]string, error) {
	f.since, f.limit = since, limit
	return f.ids, f.err
}

type fakeDigests struct {
	failFor string
}

func (f fakeDigests) Digest(_ context.Context, userID string, _ bool) (*models.AnalyticsDigest, error) {
	if userID == f.failFor {
		return nil, errors.New("db down")
	}
	return &models.AnalyticsDigest{UserID: userID, IsAuthenticated: true}, nil
}

type fakeRecommender struct {
	mu       sync.Mutex
	requests []recommendation.Request
}

func (f *fakeRecommender) Generate(_ context.Context, req recommendation.Request) (*recommendation.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return &recommendation.Result{Payload: recommendation.DefaultPayload(true), Source: recommendation.SourceFallback}, nil
}

func TestRefresherRun(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	users := &fakeUsers{ids: []string{"u1", "u2", "u3"}}
	rec := &fakeRecommender{}

	r := NewRefresher(&RefreshConfig{Since: 6 * time.Hour, Limit: 10, Workers: 2}, users, fakeDigests{failFor: "u2"}, rec, logger.NewNop())
	r.now = func() time.Time { return now }

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, now.Add(-6*time.Hour), users.since)
	assert.Equal(t, 10, users.limit)
	assert.Len(t, rec.requests, 2)
	for _, req := range rec.requests {
		assert.True(t, req.ForceRefresh)
		assert.True(t, req.Authenticated)
	}
	assert.EqualValues(t, 3, r.stats.Total)
	assert.EqualValues(t, 2, r.stats.Processed)
	assert.EqualValues(t, 2, r.stats.Fallbacks)
	assert.EqualValues(t, 1, r.stats.Errors)
}

func TestRefresherDryRun(t *testing.T) {
	rec := &fakeRecommender{}
	r := NewRefresher(&RefreshConfig{DryRun: true}, &fakeUsers{ids: []string{"u1"}}, fakeDigests{}, rec, logger.NewNop())

	require.NoError(t, r.Run(context.Background()))
	assert.Empty(t, rec.requests)
	assert.EqualValues(t, 1, r.stats.Total)
}

func TestRefresherListError(t *testing.T) {
	r := NewRefresher(&RefreshConfig{}, &fakeUsers{err: errors.New("db down")}, fakeDigests{}, &fakeRecommender{}, logger.NewNop())
	assert.Error(t, r.Run(context.Background()))
}
