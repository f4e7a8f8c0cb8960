package session

import (
	"sync"
	"time"
)

// Timer tarea programada cancelable (time.Timer la satisface).
type Timer interface {
	Stop() bool
}

// AfterFunc programa f tras d. Permite sustituir el reloj en pruebas.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc usa el reloj del sistema.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Handle identifica una recomputación pendiente.
type Handle struct {
	d   *Debouncer
	gen uint64
}

// Cancel anula la recomputación si todavía no se ejecutó.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.d.cancel(h.gen)
}

// Debouncer ejecuta solo el último valor programado que permanece estable durante el retardo.
// Cada Schedule cancela el anterior; Close cancela el pendiente y rechaza nuevos.
type Debouncer struct {
	mu     sync.Mutex
	after  AfterFunc
	gen    uint64
	timer  Timer
	closed bool
}

// NewDebouncer construye un debouncer sobre el reloj dado (nil = reloj del sistema).
func NewDebouncer(after AfterFunc) *Debouncer {
	if after == nil {
		after = RealAfterFunc
	}
	return &Debouncer{after: after}
}

// Schedule programa fire(text) tras delay, reemplazando cualquier programación previa.
// Devuelve nil si el debouncer está cerrado.
func (d *Debouncer) Schedule(text string, delay time.Duration, fire func(string)) *Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = d.after(delay, func() {
		d.mu.Lock()
		if d.closed || d.gen != gen || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fire(text)
	})
	return &Handle{d: d, gen: gen}
}

// Pending indica si hay una recomputación programada.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// CancelPending anula la recomputación programada, si existe.
func (d *Debouncer) CancelPending() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Close cancela lo pendiente; las llamadas posteriores a Schedule no programan nada.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *Debouncer) cancel(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen == gen {
		d.stopLocked()
	}
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
