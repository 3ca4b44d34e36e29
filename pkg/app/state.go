package app

import (
	"sync/atomic"

	"github.com/robotalks/telelink/pkg/hal"
	"github.com/robotalks/telelink/pkg/mailbox"
	"github.com/robotalks/telelink/pkg/pool"
	"github.com/robotalks/telelink/pkg/sema"
)

// State is the state shared by all tasks. Every field names the task
// allowed to write it; the pool, mailbox and signals are internally
// synchronized and may be used from any task.
type State struct {
	Pool *pool.Pool
	// Aux is written by the aux sampler and read by the streamer.
	Aux *mailbox.Mailbox

	// ConfigChanged is raised by the input task, taken by the sampler.
	ConfigChanged *sema.Signal
	// Ack is raised by the ack listener, taken by the streamer.
	Ack *sema.Signal
	// Fault is raised by the streamer, taken by the fault latch.
	Fault *sema.Signal

	// Owned by the sampler.
	current *pool.Buffer
	filled  int

	// Written by the input task. The sampler reads it after taking
	// ConfigChanged; other readers only report it.
	period atomic.Int32

	// Owned by the streamer.
	scale hal.Vec3

	counters counters
}

type counters struct {
	batches         atomic.Uint64
	samples         atomic.Uint64
	starvations     atomic.Uint64
	underruns       atomic.Uint64
	ackTimeouts     atomic.Uint64
	writeErrors     atomic.Uint64
	faults          atomic.Uint64
	persistFailures atomic.Uint64
}

// neutralScale leaves samples unchanged until the first aux vector.
var neutralScale = hal.Vec3{1, 0, 0}

// NewState creates the shared state with an empty pool.
func NewState(buffers, bufferSize, period int) *State {
	s := &State{
		Pool:          pool.New(buffers, bufferSize),
		Aux:           mailbox.New(),
		ConfigChanged: sema.New(),
		Ack:           sema.New(),
		Fault:         sema.New(),
		scale:         neutralScale,
	}
	s.period.Store(int32(period))
	return s
}

// Period is the current sample period.
func (s *State) Period() int {
	return int(s.period.Load())
}

// Stats is a snapshot of the task counters.
type Stats struct {
	Period int
	// Batches counts buffers forwarded downstream.
	Batches uint64
	// Samples counts samples written into buffers.
	Samples         uint64
	Starvations     uint64
	Underruns       uint64
	AckTimeouts     uint64
	WriteErrors     uint64
	Faults          uint64
	PersistFailures uint64
	AuxDrops        uint64
	Pool            pool.Stats
}

// Stats returns the current counters.
func (s *State) Stats() Stats {
	return Stats{
		Period:          s.Period(),
		Batches:         s.counters.batches.Load(),
		Samples:         s.counters.samples.Load(),
		Starvations:     s.counters.starvations.Load(),
		Underruns:       s.counters.underruns.Load(),
		AckTimeouts:     s.counters.ackTimeouts.Load(),
		WriteErrors:     s.counters.writeErrors.Load(),
		Faults:          s.counters.faults.Load(),
		PersistFailures: s.counters.persistFailures.Load(),
		AuxDrops:        s.Aux.Drops(),
		Pool:            s.Pool.Stats(),
	}
}
