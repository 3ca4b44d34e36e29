// Package uplink implements hal.Transport over real links.
//
// Stream carries raw sample bytes over any io.ReadWriter (serial port,
// TCP connection). PacketLink sends every flushed batch as one encoded
// message over a PacketReadWriter (MQTT, websocket). Both run a
// background reader which feeds received bytes into a bounded inbox
// polled by TryReadByte.
package uplink

import (
	"sync/atomic"
)

// DefaultInboxSize is the number of received bytes buffered for
// TryReadByte.
const DefaultInboxSize = 64

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// inbox is a bounded non-blocking byte queue. When full, newly received
// bytes are dropped: any pending byte already acknowledges.
type inbox struct {
	ch      chan byte
	dropped atomic.Uint64
}

func newInbox(size int) *inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &inbox{ch: make(chan byte, size)}
}

func (q *inbox) put(b byte) {
	select {
	case q.ch <- b:
	default:
		q.dropped.Add(1)
	}
}

func (q *inbox) tryGet() (byte, bool) {
	select {
	case b := <-q.ch:
		return b, true
	default:
		return 0, false
	}
}
