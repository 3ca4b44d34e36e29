// Package pool provides the fixed-capacity buffer pool shared by the
// sampler (producer) and the streamer (consumer).
//
// Every buffer cycles through Free → Producer → Queued → Consumer → Free.
// The pool never allocates after New; capacity and buffer size are fixed.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrTimeout indicates no buffer became available within the timeout.
	ErrTimeout = errors.New("pool: timeout")
	// ErrNotOwned indicates the buffer is not in the state required by
	// the operation, e.g. enqueuing a buffer the producer doesn't hold.
	ErrNotOwned = errors.New("pool: buffer not owned by caller")
)

// State is the set a buffer currently belongs to.
type State int

// Buffer states.
const (
	StateFree State = iota
	StateQueued
	StateProducer
	StateConsumer

	numStates
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateQueued:
		return "queued"
	case StateProducer:
		return "producer"
	case StateConsumer:
		return "consumer"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Buffer is a fixed-size slot of the pool.
type Buffer struct {
	pool  *Pool
	index int
	data  []byte
}

// Index is the slot index, which is the identity of the buffer.
func (b *Buffer) Index() int {
	return b.index
}

// Bytes exposes the buffer contents. Only the current owner
// (producer or consumer) may touch them.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the fixed buffer size.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Stats is a point-in-time view of the pool bookkeeping.
type Stats struct {
	Free      int
	Queued    int
	Producer  int
	Consumer  int
	Reclaimed uint64
}

// Pool owns N buffers of a fixed size.
type Pool struct {
	bufs   []Buffer
	states []State

	// free is a stack of free indices; queued is a FIFO ring of full ones.
	free        []int
	queued      []int
	queuedHead  int
	queuedCount int
	reclaimed   uint64

	lock sync.Mutex
	// freeCh and fullCh are closed and replaced whenever a buffer
	// becomes Free or Queued, waking every waiter.
	freeCh chan struct{}
	fullCh chan struct{}
}

// New creates a Pool with n buffers of size bytes each.
func New(n, size int) *Pool {
	if n <= 0 || size <= 0 {
		panic(fmt.Sprintf("pool: invalid geometry %dx%d", n, size))
	}
	p := &Pool{
		bufs:   make([]Buffer, n),
		states: make([]State, n),
		free:   make([]int, 0, n),
		queued: make([]int, n),
		freeCh: make(chan struct{}),
		fullCh: make(chan struct{}),
	}
	mem := make([]byte, n*size)
	for i := range p.bufs {
		p.bufs[i] = Buffer{pool: p, index: i, data: mem[i*size : (i+1)*size : (i+1)*size]}
		p.states[i] = StateFree
	}
	// Pushed in reverse so the first acquire hands out slot 0.
	for i := n - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// Cap returns the number of buffers.
func (p *Pool) Cap() int {
	return len(p.bufs)
}

// BufferSize returns the size of every buffer.
func (p *Pool) BufferSize() int {
	return len(p.bufs[0].data)
}

// AcquireFree takes a Free buffer for the producer.
// A zero timeout tries once without blocking, a negative timeout waits
// until ctx is done.
func (p *Pool) AcquireFree(ctx context.Context, timeout time.Duration) (*Buffer, error) {
	return p.acquire(ctx, timeout, p.takeFree)
}

// AcquireFull takes the oldest Queued buffer for the consumer.
// Timeout semantics match AcquireFree.
func (p *Pool) AcquireFull(ctx context.Context, timeout time.Duration) (*Buffer, error) {
	return p.acquire(ctx, timeout, p.takeFull)
}

// EnqueueFull hands a filled producer buffer to the consumer side.
func (p *Pool) EnqueueFull(b *Buffer) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if err := p.checkOwned(b, StateProducer); err != nil {
		return err
	}
	p.pushQueued(b.index)
	return nil
}

// Release returns a drained consumer buffer to Free.
func (p *Pool) Release(b *Buffer) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if err := p.checkOwned(b, StateConsumer); err != nil {
		return err
	}
	p.pushFree(b.index)
	return nil
}

// Reclaim moves the oldest Queued buffer straight back to Free,
// discarding its contents. It returns false if nothing is queued.
func (p *Pool) Reclaim() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	index, ok := p.popQueued()
	if !ok {
		return false
	}
	p.reclaimed++
	p.pushFree(index)
	return true
}

// StateOf reports the state of the buffer at index.
func (p *Pool) StateOf(index int) State {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.states[index]
}

// Stats returns the current bookkeeping counters.
func (p *Pool) Stats() (s Stats) {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, state := range p.states {
		switch state {
		case StateFree:
			s.Free++
		case StateQueued:
			s.Queued++
		case StateProducer:
			s.Producer++
		case StateConsumer:
			s.Consumer++
		}
	}
	s.Reclaimed = p.reclaimed
	return
}

// Check verifies the four states partition the buffer set and agree with
// the free stack and the queued ring.
func (p *Pool) Check() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	seen := make([]int, len(p.bufs))
	for _, index := range p.free {
		if p.states[index] != StateFree {
			return fmt.Errorf("pool: buffer %d on free list in state %v", index, p.states[index])
		}
		seen[index]++
	}
	for i := 0; i < p.queuedCount; i++ {
		index := p.queued[(p.queuedHead+i)%len(p.queued)]
		if p.states[index] != StateQueued {
			return fmt.Errorf("pool: buffer %d on queue in state %v", index, p.states[index])
		}
		seen[index]++
	}
	for index, state := range p.states {
		if state < 0 || state >= numStates {
			return fmt.Errorf("pool: buffer %d in invalid state %v", index, state)
		}
		listed := state == StateFree || state == StateQueued
		switch {
		case listed && seen[index] != 1:
			return fmt.Errorf("pool: buffer %d (%v) listed %d times", index, state, seen[index])
		case !listed && seen[index] != 0:
			return fmt.Errorf("pool: checked out buffer %d (%v) also listed", index, state)
		}
	}
	return nil
}

func (p *Pool) acquire(ctx context.Context, timeout time.Duration, take func() (*Buffer, <-chan struct{})) (*Buffer, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	for {
		b, waitCh := take()
		if b != nil {
			return b, nil
		}
		if timeout == 0 {
			return nil, ErrTimeout
		}
		select {
		case <-waitCh:
		case <-deadline:
			return nil, ErrTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (p *Pool) takeFree() (*Buffer, <-chan struct{}) {
	p.lock.Lock()
	defer p.lock.Unlock()
	n := len(p.free)
	if n == 0 {
		return nil, p.freeCh
	}
	index := p.free[n-1]
	p.free = p.free[:n-1]
	p.states[index] = StateProducer
	return &p.bufs[index], nil
}

func (p *Pool) takeFull() (*Buffer, <-chan struct{}) {
	p.lock.Lock()
	defer p.lock.Unlock()
	index, ok := p.popQueued()
	if !ok {
		return nil, p.fullCh
	}
	p.states[index] = StateConsumer
	return &p.bufs[index], nil
}

func (p *Pool) checkOwned(b *Buffer, want State) error {
	if b == nil || b.pool != p {
		return ErrNotOwned
	}
	if state := p.states[b.index]; state != want {
		return fmt.Errorf("%w: buffer %d is %v, want %v", ErrNotOwned, b.index, state, want)
	}
	return nil
}

// The helpers below must be called with lock held.

func (p *Pool) pushFree(index int) {
	p.states[index] = StateFree
	p.free = append(p.free, index)
	close(p.freeCh)
	p.freeCh = make(chan struct{})
}

func (p *Pool) pushQueued(index int) {
	p.states[index] = StateQueued
	p.queued[(p.queuedHead+p.queuedCount)%len(p.queued)] = index
	p.queuedCount++
	close(p.fullCh)
	p.fullCh = make(chan struct{})
}

func (p *Pool) popQueued() (int, bool) {
	if p.queuedCount == 0 {
		return 0, false
	}
	index := p.queued[p.queuedHead]
	p.queuedHead = (p.queuedHead + 1) % len(p.queued)
	p.queuedCount--
	// The caller sets the next state; until then the index is off both
	// lists, which is only observable under the lock we hold.
	return index, true
}
