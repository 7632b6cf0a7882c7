package control

import "time"

// DefaultWindow is how long a local edit suppresses authoritative values.
const DefaultWindow = time.Second

// Value is a numeric control value with settle semantics. It is not safe for
// concurrent use; the owner serializes calls, including timer callbacks.
type Value struct {
	sched  Scheduler
	window time.Duration
	onShow func(float64)

	shown         float64
	authoritative float64
	known         bool
	dirty         bool

	gen   uint64
	timer Timer
}

// NewValue returns a Value that uses sched for its settle window. A
// non-positive window selects DefaultWindow. onShow, if set, is called every
// time the shown value changes because of an authoritative value.
func NewValue(sched Scheduler, window time.Duration, onShow func(float64)) *Value {
	if sched == nil {
		sched = SystemScheduler{}
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Value{sched: sched, window: window, onShow: onShow}
}

// Input records a local edit. The edit is shown immediately and authoritative
// values are held back until the window elapses with no further edit.
func (v *Value) Input(x float64) {
	v.shown = x
	v.dirty = true
	v.gen++
	if v.timer != nil {
		v.timer.Stop()
	}
	gen := v.gen
	v.timer = v.sched.AfterFunc(v.window, func() { v.settle(gen) })
}

// Update records an authoritative value. It is shown at once unless a local
// edit is settling.
func (v *Value) Update(x float64) {
	v.authoritative = x
	v.known = true
	if !v.dirty {
		v.show(x)
	}
}

// Preset shows x as a placeholder until the first authoritative value or
// local edit arrives.
func (v *Value) Preset(x float64) {
	if v.known || v.dirty {
		return
	}
	v.shown = x
}

// Shown returns the value that should currently be displayed.
func (v *Value) Shown() float64 { return v.shown }

// Dirty reports whether a local edit is settling.
func (v *Value) Dirty() bool { return v.dirty }

// Authoritative returns the last authoritative value and whether one has arrived.
func (v *Value) Authoritative() (float64, bool) { return v.authoritative, v.known }

// Stop cancels a pending settle without reverting the shown value.
func (v *Value) Stop() {
	v.gen++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.dirty = false
}

func (v *Value) settle(gen uint64) {
	// A stale timer may still run if it was already queued when Stop was called.
	if gen != v.gen {
		return
	}
	v.timer = nil
	v.dirty = false
	if v.known {
		v.show(v.authoritative)
	}
}

func (v *Value) show(x float64) {
	changed := x != v.shown
	v.shown = x
	if changed && v.onShow != nil {
		v.onShow(x)
	}
}
