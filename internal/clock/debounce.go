package clock

import (
	"sync"
	"time"
)

// Debouncer owns a single cancellable timer. Each Trigger replaces the
// pending call, so only the last call in a burst runs, wait after the burst
// ends.
//
// A callback that loses a race with a newer Trigger or with Close is
// dropped, even if the underlying timer had already fired.
type Debouncer struct {
	clock Clock
	wait  time.Duration

	mu     sync.Mutex
	timer  Timer
	gen    uint64
	closed bool
}

// NewDebouncer returns a Debouncer that delays calls by wait on clk.
func NewDebouncer(clk Clock, wait time.Duration) *Debouncer {
	return &Debouncer{clock: clk, wait: wait}
}

// Wait returns the debounce interval.
func (d *Debouncer) Wait() time.Duration { return d.wait }

// Trigger cancels any pending call and schedules f. It is a no-op after Close.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		current := gen == d.gen && !d.closed
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			f()
		}
	})
}

// Cancel drops the pending call, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close cancels the pending call and refuses further triggers.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.closed = true
}

func (d *Debouncer) cancelLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}
