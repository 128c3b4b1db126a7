// Package scan tells barcode-scanner input apart from manual typing on a
// keyboard-wedge input field.
//
// Scanners emit a whole code as a burst of keystrokes a few milliseconds
// apart; people type tens to hundreds of milliseconds apart. The
// Disambiguator buffers keystrokes and, once the field has been quiet for
// QuietPeriod, treats a buffer of at least MinLength runes as a scan.
//
// This is a heuristic: a very fast typist can be read as a scanner and a
// short code as typing. QuietPeriod and MinLength are tuning knobs.
package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode"

	"github.com/mmynk/cashier/internal/clock"
	"github.com/mmynk/cashier/internal/metrics"
)

// State is the disambiguator's position in its state machine.
type State int

const (
	// Idle: the buffer is empty.
	Idle State = iota
	// Accumulating: keystrokes are buffered and the quiet-period timer is running.
	Accumulating
	// Committed: a buffer was accepted as a scan and its submit is running.
	Committed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Accumulating:
		return "accumulating"
	case Committed:
		return "committed"
	}
	return "unknown"
}

// Policy holds the tuning constants.
type Policy struct {
	// QuietPeriod is the keystroke silence that ends a burst.
	QuietPeriod time.Duration
	// MinLength is the shortest buffer accepted as a barcode.
	MinLength int
}

// DefaultPolicy returns the defaults: 50ms quiet period, 5 runes minimum.
func DefaultPolicy() Policy {
	return Policy{QuietPeriod: 50 * time.Millisecond, MinLength: 5}
}

// SubmitFunc handles a committed scan.
type SubmitFunc func(ctx context.Context, code string) error

// Disambiguator consumes keystrokes for one input field.
type Disambiguator struct {
	policy  Policy
	clock   clock.Clock
	quiet   *clock.Debouncer
	submit  SubmitFunc
	metrics *metrics.Registry

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	buf      []rune
	keys     uint64
	lastKey  time.Time
	inFlight bool
	deferred bool
	deferAt  uint64
	closed   bool
}

// New returns a Disambiguator that calls submit for every committed scan.
// Submits run with a context that is cancelled by Close.
func New(policy Policy, clk clock.Clock, submit SubmitFunc, m *metrics.Registry) *Disambiguator {
	if policy.MinLength < 1 {
		policy.MinLength = 1
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Disambiguator{
		policy:  policy,
		clock:   clk,
		quiet:   clock.NewDebouncer(clk, policy.QuietPeriod),
		submit:  submit,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Key records one keystroke. Control runes (CR, LF, TAB) are ignored.
func (d *Disambiguator) Key(r rune) {
	if unicode.IsControl(r) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.buf = append(d.buf, r)
	d.keys++
	d.lastKey = d.clock.Now()
	if d.state == Idle {
		d.state = Accumulating
	}
	seq := d.keys
	d.quiet.Trigger(func() { d.evaluate(seq) })
}

// Type records each rune of s as a separate keystroke.
func (d *Disambiguator) Type(s string) {
	for _, r := range s {
		d.Key(r)
	}
}

// State returns the current state.
func (d *Disambiguator) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LastKey returns the time of the most recent keystroke.
func (d *Disambiguator) LastKey() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastKey
}

// Buffered returns the number of runes waiting for a decision.
func (d *Disambiguator) Buffered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buf)
}

// Close cancels the pending timer and any running submit. Later keystrokes
// are ignored.
func (d *Disambiguator) Close() {
	d.mu.Lock()
	d.closed = true
	d.buf = nil
	d.state = Idle
	d.mu.Unlock()

	d.quiet.Close()
	d.cancel()
}

// evaluate runs when the field has been quiet since keystroke number seq.
func (d *Disambiguator) evaluate(seq uint64) {
	d.mu.Lock()
	if d.closed || seq != d.keys {
		// a newer keystroke owns the decision
		d.mu.Unlock()
		return
	}
	if d.inFlight {
		d.deferred = true
		d.deferAt = seq
		d.mu.Unlock()
		d.metrics.ScansSuppressed.Inc()
		slog.Debug("Scan evaluation deferred, submit in flight", "buffered", len(d.buf))
		return
	}

	code := string(d.buf)
	n := len(d.buf)
	d.buf = nil
	if n < d.policy.MinLength {
		d.state = Idle
		d.mu.Unlock()
		if n > 0 {
			d.metrics.ScansDiscarded.Inc()
			slog.Debug("Keystrokes discarded as typing", "length", n)
		}
		return
	}
	d.state = Committed
	d.inFlight = true
	d.mu.Unlock()

	d.metrics.ScansCommitted.Inc()
	slog.Info("Barcode scan committed", "code", code)
	if err := d.submit(d.ctx, code); err != nil {
		slog.Warn("Scan submit failed", "code", code, "error", err)
	}

	d.mu.Lock()
	d.inFlight = false
	if len(d.buf) == 0 {
		d.state = Idle
	} else {
		d.state = Accumulating
	}
	// a deferred decision is only still valid if no key arrived after it
	redo := d.deferred && d.deferAt == d.keys
	d.deferred = false
	last := d.keys
	d.mu.Unlock()

	if redo {
		d.evaluate(last)
	}
}
