package personalization

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation"
)

type sourceCall struct {
	userID        string
	authenticated bool
	force         bool
}

type fakeSource struct {
	mu      sync.Mutex
	payload *models.Payload
	err     error
	calls   []sourceCall
}

func (f *fakeSource) Recommendations(_ context.Context, userID string, authenticated, force bool) (*models.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sourceCall{userID, authenticated, force})
	if f.err != nil {
		return nil, f.err
	}
	p := f.payload.Clone()
	if p != nil {
		p.UserJourney.AuthState = models.AuthStateFor(authenticated)
	}
	return p, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSource) lastCall() sourceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func pricingPayload() *models.Payload {
	p := recommendation.DefaultPayload(false)
	p.TopSections = []models.TopSection{{Identifier: "pricing", Priority: models.PriorityHigh, Reasoning: "r"}}
	return p
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestContextRefresh(t *testing.T) {
	src := &fakeSource{payload: pricingPayload()}
	pctx := NewContext(src, nil, WithUser("u1", true))

	assert.Nil(t, pctx.Recommendations())
	require.NoError(t, pctx.Refresh(context.Background(), false))

	got := pctx.Recommendations()
	require.NotNil(t, got)
	assert.Equal(t, "pricing", got.TopSections[0].Identifier)
	assert.Equal(t, sourceCall{"u1", true, false}, src.lastCall())
}

func TestContextRefreshThrottle(t *testing.T) {
	src := &fakeSource{payload: pricingPayload()}
	clock := newClock()
	pctx := NewContext(src, nil)
	pctx.now = clock.Now
	ctx := context.Background()

	require.NoError(t, pctx.Refresh(ctx, false))
	clock.Advance(4 * time.Minute)
	require.NoError(t, pctx.Refresh(ctx, false))
	assert.Equal(t, 1, src.callCount(), "atualização dentro do throttle é ignorada")

	require.NoError(t, pctx.Refresh(ctx, true))
	assert.Equal(t, 2, src.callCount(), "atualização forçada ignora o throttle")

	clock.Advance(5*time.Minute + time.Second)
	require.NoError(t, pctx.Refresh(ctx, false))
	assert.Equal(t, 3, src.callCount())
}

func TestContextRefreshUsesSnapshot(t *testing.T) {
	store := newTestSnapshotStore(t)
	require.NoError(t, store.Save("u1", pricingPayload()))

	src := &fakeSource{payload: recommendation.DefaultPayload(true)}
	pctx := NewContext(src, store, WithUser("u1", false))

	require.NoError(t, pctx.Refresh(context.Background(), false))
	assert.Equal(t, 0, src.callCount())
	assert.Equal(t, "pricing", pctx.Recommendations().TopSections[0].Identifier)

	require.NoError(t, pctx.Refresh(context.Background(), true))
	assert.Equal(t, 1, src.callCount())
}

func TestContextRefreshRegeneratesOnSnapshotAuthMismatch(t *testing.T) {
	store := newTestSnapshotStore(t)
	src := &fakeSource{payload: pricingPayload()}
	ctx := context.Background()

	require.NoError(t, NewContext(src, store, WithUser("u1", false)).Refresh(ctx, false))
	require.Equal(t, 1, src.callCount())

	pctx := NewContext(src, store, WithUser("u1", true))
	require.NoError(t, pctx.Refresh(ctx, false))

	assert.Equal(t, 2, src.callCount())
	assert.Equal(t, sourceCall{"u1", true, true}, src.lastCall())
	assert.Equal(t, models.AuthStateAuthenticated, pctx.Recommendations().UserJourney.AuthState)

	saved, ok := store.Load("u1")
	require.True(t, ok)
	assert.Equal(t, models.AuthStateAuthenticated, saved.UserJourney.AuthState)
}

func TestContextRefreshPersistsSnapshot(t *testing.T) {
	store := newTestSnapshotStore(t)
	src := &fakeSource{payload: pricingPayload()}
	pctx := NewContext(src, store, WithUser("u1", false))

	require.NoError(t, pctx.Refresh(context.Background(), true))

	saved, ok := store.Load("u1")
	require.True(t, ok)
	assert.Equal(t, "pricing", saved.TopSections[0].Identifier)
}

func TestContextRefreshErrorSetsDefaults(t *testing.T) {
	store := newTestSnapshotStore(t)
	src := &fakeSource{err: errors.New("503")}
	pctx := NewContext(src, store, WithUser("u1", true))

	err := pctx.Refresh(context.Background(), false)
	assert.Error(t, err)
	assert.Equal(t, recommendation.DefaultPayload(true), pctx.Recommendations())

	saved, ok := store.Load("u1")
	require.True(t, ok)
	assert.Equal(t, "dashboard", saved.TopSections[0].Identifier)

	// falha não conta para o throttle
	src.mu.Lock()
	src.err = nil
	src.payload = pricingPayload()
	src.mu.Unlock()
	require.NoError(t, store.Clear())
	require.NoError(t, pctx.Refresh(context.Background(), false))
	assert.Equal(t, 2, src.callCount())
}

func TestContextRefreshNilPayloadIsError(t *testing.T) {
	pctx := NewContext(&fakeSource{}, nil)

	err := pctx.Refresh(context.Background(), true)
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, models.AuthStateAnonymous, pctx.Recommendations().UserJourney.AuthState)
}

func TestContextTrackBehaviorChange(t *testing.T) {
	src := &fakeSource{payload: pricingPayload()}
	pctx := NewContext(src, nil)
	ctx := context.Background()

	for i := 1; i < BehaviorThreshold; i++ {
		refreshed, err := pctx.TrackBehaviorChange(ctx)
		require.NoError(t, err)
		assert.False(t, refreshed)
	}
	assert.Equal(t, 0, src.callCount())

	refreshed, err := pctx.TrackBehaviorChange(ctx)
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.True(t, src.lastCall().force)

	// contador zera após atualização bem-sucedida
	refreshed, _ = pctx.TrackBehaviorChange(ctx)
	assert.False(t, refreshed)
	assert.Equal(t, 1, src.callCount())
}

func TestContextSetUser(t *testing.T) {
	src := &fakeSource{payload: pricingPayload()}
	pctx := NewContext(src, nil)
	ctx := context.Background()

	require.NoError(t, pctx.Refresh(ctx, false))
	assert.Equal(t, models.AuthStateAnonymous, pctx.Recommendations().UserJourney.AuthState)

	require.NoError(t, pctx.SetUser(ctx, "u1", true))
	assert.Equal(t, sourceCall{"u1", true, true}, src.lastCall())
	assert.Equal(t, models.AuthStateAuthenticated, pctx.Recommendations().UserJourney.AuthState)

	userID, authenticated := pctx.User()
	assert.Equal(t, "u1", userID)
	assert.True(t, authenticated)

	// mesmo usuário e estado: fluxo normal, bloqueado pelo throttle
	require.NoError(t, pctx.SetUser(ctx, "u1", true))
	assert.Equal(t, 2, src.callCount())

	require.NoError(t, pctx.SetUser(ctx, "", false))
	assert.Equal(t, sourceCall{"anonymous", false, true}, src.lastCall())
}
