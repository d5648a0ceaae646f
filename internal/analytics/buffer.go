package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/metrics"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

const (
	DefaultBufferSize     = 1000
	DefaultFlushInterval  = time.Second
	DefaultFlushThreshold = 100

	// flushTimeout timeout de cada gravação em lote
	flushTimeout = 5 * time.Second
)

// HeatmapWriter destino dos eventos de heatmap em lote
type HeatmapWriter interface {
	InsertHeatmapEvents(ctx context.Context, events []models.HeatmapEvent) error
}

// Buffer fila não bloqueante de eventos de heatmap
type Buffer struct {
	events chan models.HeatmapEvent
	closed chan struct{}
	once   sync.Once
}

// NewBuffer cria um buffer com a capacidade informada
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{
		events: make(chan models.HeatmapEvent, capacity),
		closed: make(chan struct{}),
	}
}

// Send enfileira o evento sem bloquear. Retorna false se o buffer estiver cheio
// ou fechado.
func (b *Buffer) Send(event models.HeatmapEvent) bool {
	select {
	case <-b.closed:
		return false
	default:
	}

	select {
	case b.events <- event:
		return true
	default:
		metrics.AnalyticsEventsDropped.Inc()
		return false
	}
}

// Len eventos aguardando gravação
func (b *Buffer) Len() int {
	return len(b.events)
}

// Close para de aceitar eventos. Pode ser chamado mais de uma vez.
func (b *Buffer) Close() {
	b.once.Do(func() {
		close(b.closed)
	})
}

// Writer consome o buffer e grava os eventos em lote
type Writer struct {
	buffer         *Buffer
	dest           HeatmapWriter
	log            logger.Logger
	flushInterval  time.Duration
	flushThreshold int
	wg             sync.WaitGroup
}

// NewWriter cria o writer; chame Start para iniciar a gravação
func NewWriter(buffer *Buffer, dest HeatmapWriter, log logger.Logger, flushInterval time.Duration, flushThreshold int) *Writer {
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	if flushThreshold <= 0 {
		flushThreshold = DefaultFlushThreshold
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Writer{
		buffer:         buffer,
		dest:           dest,
		log:            log,
		flushInterval:  flushInterval,
		flushThreshold: flushThreshold,
	}
}

// Start inicia a goroutine de gravação
func (w *Writer) Start() {
	w.wg.Add(1)
	go w.flushLoop()
}

// Stop fecha o buffer, grava o que restou e aguarda a goroutine terminar
func (w *Writer) Stop() {
	w.buffer.Close()
	w.wg.Wait()
}

// flushLoop acumula eventos e grava quando o lote atinge flushThreshold
// ou quando o ticker dispara
func (w *Writer) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	batch := make([]models.HeatmapEvent, 0, w.flushThreshold)

	for {
		select {
		case event := <-w.buffer.events:
			batch = append(batch, event)
			if len(batch) >= w.flushThreshold {
				w.flush(batch)
				batch = make([]models.HeatmapEvent, 0, w.flushThreshold)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = make([]models.HeatmapEvent, 0, w.flushThreshold)
			}

		case <-w.buffer.closed:
			w.drain(&batch)
			if len(batch) > 0 {
				w.flush(batch)
			}
			return
		}
	}
}

func (w *Writer) drain(batch *[]models.HeatmapEvent) {
	for {
		select {
		case event := <-w.buffer.events:
			*batch = append(*batch, event)
		default:
			return
		}
	}
}

func (w *Writer) flush(batch []models.HeatmapEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := w.dest.InsertHeatmapEvents(ctx, batch); err != nil {
		w.log.Error("Falha ao gravar eventos de heatmap",
			logger.Error(err),
			logger.Int("batch_size", len(batch)))
		return
	}

	w.log.Debug("Eventos de heatmap gravados", logger.Int("total", len(batch)))
}
