package property

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of triggers into one callback invocation after a
// quiet period. Each trigger resets the timer rather than queuing another
// firing, so the callback always observes the state current at fire time.
type debouncer struct {
	window time.Duration
	fn     func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	stopped bool
}

func newDebouncer(window time.Duration, fn func()) *debouncer {
	if window <= 0 {
		window = time.Second
	}
	return &debouncer{window: window, fn: fn}
}

// trigger schedules the callback after the quiet window, cancelling and
// rescheduling any previously pending firing.
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()

	d.fn()
}

// flush runs the callback immediately when a firing is pending. Used on
// shutdown so the last burst of changes is not lost to the quiet window.
func (d *debouncer) flush() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.fn()
}

// stop cancels any pending firing permanently.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
