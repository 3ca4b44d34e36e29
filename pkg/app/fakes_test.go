package app

import (
	"context"
	"errors"
	"sync"
	"time"

	fx "github.com/robotalks/telelink/pkg/framework"
	"github.com/robotalks/telelink/pkg/hal"
)

type funcSource func() byte

func (f funcSource) ReadSample() byte { return f() }

type constVectors hal.Vec3

func (v constVectors) ReadVector() hal.Vec3 { return hal.Vec3(v) }

// fakeTransport records written bytes. When autoAck is set, every Flush
// queues one inbound byte as the peer's reply.
type fakeTransport struct {
	lock    sync.Mutex
	written []byte
	flushes int
	inbound []byte
	autoAck bool
	failAt  int
}

func (t *fakeTransport) WriteByte(b byte) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.failAt > 0 && len(t.written)+1 == t.failAt {
		return errors.New("link down")
	}
	t.written = append(t.written, b)
	return nil
}

func (t *fakeTransport) TryReadByte() (byte, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if len(t.inbound) == 0 {
		return 0, false
	}
	b := t.inbound[0]
	t.inbound = t.inbound[1:]
	return b, true
}

func (t *fakeTransport) Flush() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.flushes++
	if t.autoAck {
		t.inbound = append(t.inbound, 'K')
	}
	return nil
}

func (t *fakeTransport) inject(bs ...byte) {
	t.lock.Lock()
	t.inbound = append(t.inbound, bs...)
	t.lock.Unlock()
}

func (t *fakeTransport) snapshot() ([]byte, int) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]byte(nil), t.written...), t.flushes
}

type fakeStore struct {
	lock    sync.Mutex
	vals    map[string]int
	loadErr error
	failErr error
	stores  []int
}

func (s *fakeStore) Load(key string) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.loadErr != nil {
		return 0, s.loadErr
	}
	val, ok := s.vals[key]
	if !ok {
		return 0, errors.New("not found")
	}
	return val, nil
}

func (s *fakeStore) Store(key string, val int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.stores = append(s.stores, val)
	if s.failErr != nil {
		return s.failErr
	}
	if s.vals == nil {
		s.vals = make(map[string]int)
	}
	s.vals[key] = val
	return nil
}

type fakePins struct {
	lock   sync.Mutex
	levels map[hal.PinID]bool
}

func newFakePins() *fakePins {
	return &fakePins{levels: map[hal.PinID]bool{
		hal.PinIncrease: true,
		hal.PinDecrease: true,
	}}
}

func (p *fakePins) ReadPin(id hal.PinID) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.levels[id]
}

func (p *fakePins) set(id hal.PinID, level bool) {
	p.lock.Lock()
	p.levels[id] = level
	p.lock.Unlock()
}

type indicatorChange struct {
	id hal.IndicatorID
	on bool
}

type fakeIndicators struct {
	lock    sync.Mutex
	state   map[hal.IndicatorID]bool
	changes []indicatorChange
}

func newFakeIndicators() *fakeIndicators {
	return &fakeIndicators{state: make(map[hal.IndicatorID]bool)}
}

func (f *fakeIndicators) SetIndicator(id hal.IndicatorID, on bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.state[id] != on {
		f.changes = append(f.changes, indicatorChange{id: id, on: on})
	}
	f.state[id] = on
}

func (f *fakeIndicators) get(id hal.IndicatorID) bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.state[id]
}

func (f *fakeIndicators) history(id hal.IndicatorID) (on []bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	for _, c := range f.changes {
		if c.id == id {
			on = append(on, c.on)
		}
	}
	return
}

// fakeControlContext drives Controllers without a Loop.
type fakeControlContext struct {
	ctx       context.Context
	interval  time.Duration
	iteration uint64
}

func newFakeControlContext(interval time.Duration) *fakeControlContext {
	return &fakeControlContext{ctx: context.Background(), interval: interval}
}

func (c *fakeControlContext) Context() context.Context    { return c.ctx }
func (c *fakeControlContext) Time() time.Time             { return time.Now() }
func (c *fakeControlContext) Iteration() uint64           { return c.iteration }
func (c *fakeControlContext) Interval() time.Duration     { return c.interval }
func (c *fakeControlContext) SetInterval(d time.Duration) { c.interval = d }
func (c *fakeControlContext) TriggerNext()                {}

var _ fx.ControlContext = (*fakeControlContext)(nil)

func testTimings() Timings {
	return Timings{
		PeriodUnit:  time.Millisecond,
		FullTimeout: 50 * time.Millisecond,
		AckTimeout:  20 * time.Millisecond,
		AckPoll:     time.Millisecond,
		InputPoll:   time.Millisecond,
		AuxPeriod:   2 * time.Millisecond,
		FaultHold:   30 * time.Millisecond,
	}
}
