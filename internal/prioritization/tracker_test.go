package prioritization

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

func newFeatureTracker(t *testing.T, opts ...TrackerOption) *Tracker {
	t.Helper()

	list := []models.Item{
		{ID: "c", Order: 3},
		{ID: "hero", Fixed: true, Order: 0},
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
	}
	tr := NewTracker(list, append([]TrackerOption{WithDebounce(10 * time.Millisecond)}, opts...)...)
	t.Cleanup(tr.Close)
	return tr
}

func TestTrackerDefaultOrderUsesItemOrder(t *testing.T) {
	tr := newFeatureTracker(t)
	assert.Equal(t, []string{"hero", "a", "b", "c"}, tr.Order())
}

func TestTrackerDebouncedReorder(t *testing.T) {
	var calls atomic.Int32
	tr := newFeatureTracker(t, WithOnReorder(func([]models.Item) { calls.Add(1) }))

	assert.True(t, tr.RecordInteraction("a"))
	for i := 0; i < 8; i++ {
		assert.True(t, tr.RecordInteraction("b"))
	}
	assert.True(t, tr.RecordInteraction("c"))

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hero", "b", "a", "c"}, tr.Order())

	// rajada dentro da janela gera uma única recomputação
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTrackerIgnoresUnknownIDs(t *testing.T) {
	tr := newFeatureTracker(t)

	assert.False(t, tr.RecordInteraction("nao-existe"))
	assert.Empty(t, tr.Counts())
}

func TestTrackerRecordElementStripsSectionType(t *testing.T) {
	tr := newFeatureTracker(t, WithSectionType("feature"))

	assert.True(t, tr.RecordElement("feature-b"))
	assert.True(t, tr.RecordElement("b"))
	assert.False(t, tr.RecordElement("testimonial-b"))
	assert.Equal(t, 2, tr.Counts()["b"])
}

func TestTrackerApplyCounts(t *testing.T) {
	var calls atomic.Int32
	tr := newFeatureTracker(t, WithOnReorder(func([]models.Item) { calls.Add(1) }))

	applied := tr.ApplyCounts(map[string]int{"c": 9, "a": 1, "x": 50})

	assert.Equal(t, 2, applied)
	assert.Equal(t, map[string]int{"a": 1, "c": 9}, tr.Counts())
	assert.Equal(t, []string{"hero", "c", "a", "b"}, tr.Order())

	// contagens do servidor não contam como reordenamento do usuário
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestTrackerApplyCountsKeepsPendingReorder(t *testing.T) {
	var mu sync.Mutex
	var reorders [][]string
	tr := newFeatureTracker(t, WithOnReorder(func(items []models.Item) {
		mu.Lock()
		reorders = append(reorders, models.IDs(items))
		mu.Unlock()
	}))

	tr.RecordInteraction("a")
	tr.ApplyCounts(map[string]int{"c": 9})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reorders) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"hero", "c", "a", "b"}, reorders[0])
	mu.Unlock()
}

func TestTrackerCloseCancelsPendingReorder(t *testing.T) {
	var calls atomic.Int32
	tr := NewTracker(
		[]models.Item{{ID: "a", Order: 0}, {ID: "b", Order: 1}},
		WithDebounce(20*time.Millisecond),
		WithThreshold(0),
		WithOnReorder(func([]models.Item) { calls.Add(1) }),
	)

	tr.RecordInteraction("b")
	tr.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, []string{"a", "b"}, tr.Order())
	assert.False(t, tr.RecordInteraction("b"))
}

func TestScopedTimerTrailingEdge(t *testing.T) {
	var calls atomic.Int32
	timer := NewScopedTimer(20*time.Millisecond, func() { calls.Add(1) })
	defer timer.Close()

	for i := 0; i < 5; i++ {
		timer.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, timer.Pending())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, timer.Pending())
}

func TestScopedTimerCancel(t *testing.T) {
	var calls atomic.Int32
	timer := NewScopedTimer(10*time.Millisecond, func() { calls.Add(1) })
	defer timer.Close()

	timer.Trigger()
	timer.Cancel()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	timer.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}
