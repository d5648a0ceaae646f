package personalization

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

func featureItems() []models.Item {
	return []models.Item{
		{ID: "hero", Fixed: true, Order: 0},
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
		{ID: "c", Order: 3},
	}
}

func TestSessionReordersAfterInteractions(t *testing.T) {
	src := &fakeSource{payload: pricingPayload()}
	session := NewSession(NewContext(src, nil), featureItems(), SessionConfig{
		SectionType: "feature",
		Debounce:    10 * time.Millisecond,
	})
	defer session.Close()

	assert.Equal(t, []string{"hero", "a", "b", "c"}, session.PrioritizedOrder())

	for i := 0; i < 3; i++ {
		assert.True(t, session.RecordInteraction("c"))
	}
	assert.True(t, session.RecordElement("feature-b"))
	assert.False(t, session.RecordElement("testimonial-b"))
	assert.False(t, session.RecordInteraction("unknown"))

	assert.Eventually(t, func() bool {
		order := session.PrioritizedOrder()
		return order[1] == "c"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hero", "c", "b", "a"}, session.PrioritizedOrder())
}

func TestSessionRefreshesAfterInterval(t *testing.T) {
	src := &fakeSource{payload: pricingPayload()}
	clock := newClock()
	session := NewSession(NewContext(src, nil), featureItems(), SessionConfig{Debounce: 5 * time.Millisecond})
	session.now = clock.Now
	session.lastServerRefresh = clock.Now()
	defer session.Close()

	session.RecordInteraction("b")
	assert.Eventually(t, func() bool { return session.PrioritizedOrder()[1] == "b" }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, src.callCount(), "menos de 5s desde a última atualização")

	clock.Advance(6 * time.Second)
	session.RecordInteraction("c")
	session.RecordInteraction("c")
	assert.Eventually(t, func() bool { return src.callCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, src.lastCall().force)
}

func TestSessionBehaviorThresholdForcesRefresh(t *testing.T) {
	src := &fakeSource{payload: pricingPayload()}
	clock := newClock()
	session := NewSession(NewContext(src, nil), featureItems(), SessionConfig{Debounce: time.Millisecond})
	session.now = clock.Now
	session.lastServerRefresh = clock.Now()
	defer session.Close()

	for i := 0; i < BehaviorThreshold; i++ {
		session.RecordInteraction("c")
		// espera cada reordenamento para que o debounce não junte as interações
		time.Sleep(20 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return src.callCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, src.lastCall().force)
}

func TestSessionSeedsCountsFromServer(t *testing.T) {
	payload := pricingPayload()
	payload.TopSections = []models.TopSection{
		{Identifier: "feature-c", Priority: models.PriorityHigh, Count: 8},
		{Identifier: "feature-b", Priority: models.PriorityMedium, Count: 2},
		{Identifier: "feature-a", Priority: models.PriorityLow},
		{Identifier: "testimonial-a", Priority: models.PriorityHigh, Count: 50},
	}
	src := &fakeSource{payload: payload}
	session := NewSession(NewContext(src, nil), featureItems(), SessionConfig{SectionType: "feature"})
	defer session.Close()

	require.NoError(t, session.RefreshRecommendations(context.Background(), true))

	assert.Equal(t, []string{"hero", "c", "b", "a"}, session.PrioritizedOrder())
	assert.Equal(t, "feature-c", session.Recommendations().TopSections[0].Identifier)
	assert.Equal(t, 1, src.callCount(), "semear contadores não dispara nova atualização")
}

func TestSessionSeedingKeepsPendingInteraction(t *testing.T) {
	payload := pricingPayload()
	payload.TopSections = []models.TopSection{
		{Identifier: "feature-c", Priority: models.PriorityHigh, Count: 8},
	}
	src := &fakeSource{payload: payload}
	pctx := NewContext(src, nil)
	session := NewSession(pctx, featureItems(), SessionConfig{
		SectionType: "feature",
		Debounce:    20 * time.Millisecond,
	})
	defer session.Close()

	require.True(t, session.RecordInteraction("a"))
	require.NoError(t, session.RefreshRecommendations(context.Background(), true))

	assert.Eventually(t, func() bool {
		pctx.mu.Lock()
		defer pctx.mu.Unlock()
		return pctx.behaviorCount == 1
	}, time.Second, 5*time.Millisecond, "interação pendente conta como mudança de comportamento")
	assert.Equal(t, []string{"hero", "c", "a", "b"}, session.PrioritizedOrder())
	assert.Equal(t, 1, src.callCount())
}

func TestSessionSeedFromSummary(t *testing.T) {
	session := NewSession(NewContext(&fakeSource{}, nil), featureItems(), SessionConfig{SectionType: "feature"})
	defer session.Close()

	applied := session.SeedFromSummary(&models.BehaviorSummary{
		TopSections: []models.ElementEngagement{
			{Identifier: "feature-b", Count: 5},
			{Identifier: "feature-zzz", Count: 9},
			{Identifier: "section-a", Count: 9},
		},
	})
	assert.Equal(t, 1, applied)
	assert.Equal(t, []string{"hero", "b", "a", "c"}, session.PrioritizedOrder())
	assert.Equal(t, 0, session.SeedFromSummary(nil))
}

func TestSessionCloseStopsReordering(t *testing.T) {
	session := NewSession(NewContext(&fakeSource{}, nil), featureItems(), SessionConfig{Debounce: 20 * time.Millisecond})

	session.RecordInteraction("c")
	session.Close()
	session.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"hero", "a", "b", "c"}, session.PrioritizedOrder())
	assert.False(t, session.RecordInteraction("c"))
}
