// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress tracks the fraction of input files processed in a
// single pipeline run.
package progress

// Func receives the current percentage in [0, 100].
type Func func(percent float64)

// Tracker holds the progress of one run. A Tracker is owned by exactly one
// run and is not safe for concurrent use.
type Tracker struct {
	total  int
	done   int
	notify Func
}

// NewTracker returns a tracker for total files. notify may be nil.
func NewTracker(total int, notify Func) *Tracker {
	return &Tracker{total: total, notify: notify}
}

// Reset sets progress back to 0 and reports it.
func (t *Tracker) Reset() {
	t.done = 0
	t.emit()
}

// Advance marks one more file as processed and reports the new percentage.
// Calls beyond total are ignored.
func (t *Tracker) Advance() {
	if t.done >= t.total {
		return
	}
	t.done++
	t.emit()
}

// Done returns the number of files processed so far.
func (t *Tracker) Done() int { return t.done }

// Total returns the number of files in the run.
func (t *Tracker) Total() int { return t.total }

// Percent returns (done/total)*100, or 0 for an empty run.
func (t *Tracker) Percent() float64 {
	if t.total <= 0 {
		return 0
	}
	return float64(t.done) / float64(t.total) * 100
}

func (t *Tracker) emit() {
	if t.notify != nil {
		t.notify(t.Percent())
	}
}
