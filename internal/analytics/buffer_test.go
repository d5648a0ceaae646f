package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

type recordingWriter struct {
	mu      sync.Mutex
	batches [][]models.HeatmapEvent
	err     error
}

func (r *recordingWriter) InsertHeatmapEvents(_ context.Context, events []models.HeatmapEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, append([]models.HeatmapEvent(nil), events...))
	return r.err
}

func (r *recordingWriter) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}

func (r *recordingWriter) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestBuffer_SendFull(t *testing.T) {
	buf := NewBuffer(2)

	assert.True(t, buf.Send(models.HeatmapEvent{ID: "1"}))
	assert.True(t, buf.Send(models.HeatmapEvent{ID: "2"}))
	assert.False(t, buf.Send(models.HeatmapEvent{ID: "3"}))
	assert.Equal(t, 2, buf.Len())
}

func TestBuffer_SendAfterClose(t *testing.T) {
	buf := NewBuffer(2)
	buf.Close()
	buf.Close()

	assert.False(t, buf.Send(models.HeatmapEvent{ID: "1"}))
}

func TestWriter_FlushOnThreshold(t *testing.T) {
	buf := NewBuffer(10)
	dest := &recordingWriter{}
	w := NewWriter(buf, dest, nil, time.Hour, 3)
	w.Start()
	defer w.Stop()

	for i := 0; i < 3; i++ {
		buf.Send(models.HeatmapEvent{ID: "e"})
	}

	assert.Eventually(t, func() bool { return dest.total() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, dest.batchCount())
}

func TestWriter_FlushOnInterval(t *testing.T) {
	buf := NewBuffer(10)
	dest := &recordingWriter{}
	w := NewWriter(buf, dest, nil, 10*time.Millisecond, 100)
	w.Start()
	defer w.Stop()

	buf.Send(models.HeatmapEvent{ID: "e"})

	assert.Eventually(t, func() bool { return dest.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestWriter_StopDrains(t *testing.T) {
	buf := NewBuffer(10)
	dest := &recordingWriter{}
	w := NewWriter(buf, dest, nil, time.Hour, 100)

	for i := 0; i < 5; i++ {
		buf.Send(models.HeatmapEvent{ID: "e"})
	}

	w.Start()
	w.Stop()

	assert.Equal(t, 5, dest.total())
	assert.False(t, buf.Send(models.HeatmapEvent{ID: "late"}))
}

func TestWriter_FlushErrorDoesNotStopLoop(t *testing.T) {
	buf := NewBuffer(10)
	dest := &recordingWriter{err: errors.New("db down")}
	w := NewWriter(buf, dest, nil, time.Hour, 1)
	w.Start()
	defer w.Stop()

	buf.Send(models.HeatmapEvent{ID: "1"})
	buf.Send(models.HeatmapEvent{ID: "2"})

	assert.Eventually(t, func() bool { return dest.batchCount() == 2 }, time.Second, 5*time.Millisecond)
}
