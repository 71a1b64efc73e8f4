package track

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of rapid calls into a single trailing action.
// It is a two-state machine (idle / pending) with a single scheduled-callback
// slot: each Call replaces any pending timer, so only the most recent path
// ever fires, debounce delay after the last call.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fire  func(path string)
}

// NewDebouncer creates a debouncer that invokes fire with the path from the
// most recent Call once the delay elapses without a newer call.
func NewDebouncer(delay time.Duration, fire func(path string)) *Debouncer {
	return &Debouncer{delay: delay, fire: fire}
}

// Call schedules path to fire after the debounce delay, superseding any
// pending schedule. Intermediate paths are dropped, not queued.
func (d *Debouncer) Call(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	// The callback fires only while it still owns the slot. An expired
	// timer whose callback lost the lock race to a newer Call or to Stop
	// finds the slot reassigned and must not fire or clear it.
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timer != timer {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fire(path)
	})
	d.timer = timer
}

// Stop cancels any pending fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
