// Package debounce filters contact bounce on digital inputs.
package debounce

// Debouncer accepts a new level only after it has been sampled
// Threshold times in a row. Edge reports true for exactly one Update
// after an accepted transition.
type Debouncer struct {
	threshold int
	raw       bool
	stable    bool
	count     int
	edge      bool
}

// New creates a Debouncer starting in the given stable level.
// A threshold below 1 is treated as 1.
func New(threshold int, initial bool) *Debouncer {
	if threshold < 1 {
		threshold = 1
	}
	return &Debouncer{threshold: threshold, raw: initial, stable: initial}
}

// Update feeds one raw sample and returns whether it produced an edge.
func (d *Debouncer) Update(raw bool) bool {
	d.raw = raw
	d.edge = false
	if raw == d.stable {
		d.count = 0
		return false
	}
	if d.count++; d.count >= d.threshold {
		d.stable, d.count, d.edge = raw, 0, true
	}
	return d.edge
}

// Raw is the last sampled level.
func (d *Debouncer) Raw() bool { return d.raw }

// High is the stable level.
func (d *Debouncer) High() bool { return d.stable }

// Edge reports whether the last Update accepted a transition.
func (d *Debouncer) Edge() bool { return d.edge }

// Falling reports a just-accepted high to low transition.
func (d *Debouncer) Falling() bool { return d.edge && !d.stable }

// Rising reports a just-accepted low to high transition.
func (d *Debouncer) Rising() bool { return d.edge && d.stable }
