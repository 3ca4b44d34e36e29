package sim

import (
	"sync"
	"time"
)

// Peer is a loopback transport: every flushed batch is recorded and,
// unless muted, acknowledged after Delay.
type Peer struct {
	Delay time.Duration

	lock    sync.Mutex
	pending []byte
	batches uint64
	muted   bool
	ackCh   chan byte
}

// NewPeer creates a Peer.
func NewPeer(delay time.Duration) *Peer {
	return &Peer{Delay: delay, ackCh: make(chan byte, 16)}
}

// Mute stops or resumes acknowledging.
func (p *Peer) Mute(muted bool) {
	p.lock.Lock()
	p.muted = muted
	p.lock.Unlock()
}

// Muted tells whether acknowledgments are suppressed.
func (p *Peer) Muted() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.muted
}

// Batches returns the number of batches received.
func (p *Peer) Batches() uint64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.batches
}

// WriteByte implements hal.Transport.
func (p *Peer) WriteByte(b byte) error {
	p.lock.Lock()
	p.pending = append(p.pending, b)
	p.lock.Unlock()
	return nil
}

// Flush implements hal.Flusher.
func (p *Peer) Flush() error {
	p.lock.Lock()
	p.pending = p.pending[:0]
	p.batches++
	muted := p.muted
	p.lock.Unlock()
	if !muted {
		time.AfterFunc(p.Delay, p.ack)
	}
	return nil
}

func (p *Peer) ack() {
	select {
	case p.ackCh <- 'K':
	default:
	}
}

// TryReadByte implements hal.Transport.
func (p *Peer) TryReadByte() (byte, bool) {
	select {
	case b := <-p.ackCh:
		return b, true
	default:
		return 0, false
	}
}
