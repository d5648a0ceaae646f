package prioritization

import (
	"sync"
	"time"
)

// ScopedTimer executa fn uma vez após delay desde o último Trigger (trailing edge).
// Close cancela qualquer execução pendente; depois dele Trigger não tem efeito.
type ScopedTimer struct {
	mu     sync.Mutex
	delay  time.Duration
	fn     func()
	timer  *time.Timer
	gen    uint64
	closed bool
}

// NewScopedTimer cria um timer de debounce para fn
func NewScopedTimer(delay time.Duration, fn func()) *ScopedTimer {
	if delay < 0 {
		delay = 0
	}
	return &ScopedTimer{delay: delay, fn: fn}
}

// Trigger (re)inicia a contagem; chamadas dentro da janela adiam a execução
func (t *ScopedTimer) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

// Pending indica se há execução agendada
func (t *ScopedTimer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Cancel descarta a execução pendente sem fechar o timer
func (t *ScopedTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Close cancela a execução pendente e desativa o timer
func (t *ScopedTimer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.cancelLocked()
}

func (t *ScopedTimer) cancelLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *ScopedTimer) fire(gen uint64) {
	t.mu.Lock()
	if t.closed || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	t.fn()
}
