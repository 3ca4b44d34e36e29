// Package sim provides a simulated board for running the daemon
// without hardware.
package sim

import (
	"math"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/telelink/pkg/hal"
)

// Wave is a sample source producing a sine wave of Period samples
// centered at mid scale.
type Wave struct {
	Period    int
	Amplitude float64

	lock sync.Mutex
	n    int
}

// NewWave creates a Wave.
func NewWave(period int) *Wave {
	return &Wave{Period: period, Amplitude: 127}
}

// ReadSample implements hal.SampleSource.
func (w *Wave) ReadSample() byte {
	w.lock.Lock()
	n := w.n
	w.n++
	w.lock.Unlock()
	if w.Period <= 0 {
		return 128
	}
	v := 128 + w.Amplitude*math.Sin(2*math.Pi*float64(n%w.Period)/float64(w.Period))
	return byte(math.Max(0, math.Min(255, math.Round(v))))
}

// Vectors is a settable vector source.
type Vectors struct {
	lock sync.RWMutex
	v    hal.Vec3
}

// NewVectors creates Vectors reading the neutral vector.
func NewVectors() *Vectors {
	return &Vectors{v: hal.Vec3{1, 0, 0}}
}

// Set changes the value returned by subsequent reads.
func (s *Vectors) Set(v hal.Vec3) {
	s.lock.Lock()
	s.v = v
	s.lock.Unlock()
}

// ReadVector implements hal.VectorSource.
func (s *Vectors) ReadVector() hal.Vec3 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.v
}

// Pins simulates active-low push buttons with pull-ups: a released
// button reads high.
type Pins struct {
	lock    sync.RWMutex
	pressed map[hal.PinID]bool
}

// NewPins creates Pins with every button released.
func NewPins() *Pins {
	return &Pins{pressed: make(map[hal.PinID]bool)}
}

// Press holds the button down.
func (p *Pins) Press(id hal.PinID) {
	p.set(id, true)
}

// Release lets the button go.
func (p *Pins) Release(id hal.PinID) {
	p.set(id, false)
}

// Pressed tells whether the button is held.
func (p *Pins) Pressed(id hal.PinID) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.pressed[id]
}

func (p *Pins) set(id hal.PinID, pressed bool) {
	p.lock.Lock()
	p.pressed[id] = pressed
	p.lock.Unlock()
}

// ReadPin implements hal.Pins.
func (p *Pins) ReadPin(id hal.PinID) bool {
	return !p.Pressed(id)
}

// Indicators keeps indicator states and logs every change.
type Indicators struct {
	lock  sync.RWMutex
	state map[hal.IndicatorID]bool
}

// NewIndicators creates Indicators with everything off.
func NewIndicators() *Indicators {
	return &Indicators{state: make(map[hal.IndicatorID]bool)}
}

// SetIndicator implements hal.Indicators.
func (s *Indicators) SetIndicator(id hal.IndicatorID, on bool) {
	s.lock.Lock()
	changed := s.state[id] != on
	s.state[id] = on
	s.lock.Unlock()
	if changed {
		glog.V(2).Infof("indicator %s: %v", id, on)
	}
}

// Get returns the indicator state.
func (s *Indicators) Get(id hal.IndicatorID) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state[id]
}
