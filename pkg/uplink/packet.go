package uplink

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/telelink/pkg/msgs"
)

// AckByte is queued for every packet received from the peer.
const AckByte = 0x06

// PacketLink collects written bytes into a batch which is encoded and
// sent as one packet on Flush. Every received packet is one
// acknowledgment.
type PacketLink struct {
	ReadWriter PacketReadWriter
	Encoder    *msgs.Encoder

	inbox *inbox
	lock  sync.Mutex
	batch []byte
}

// NewPacketLink creates a PacketLink.
func NewPacketLink(rw PacketReadWriter, enc *msgs.Encoder) *PacketLink {
	return &PacketLink{
		ReadWriter: rw,
		Encoder:    enc,
		inbox:      newInbox(DefaultInboxSize),
	}
}

// WriteByte implements hal.Transport.
func (l *PacketLink) WriteByte(b byte) error {
	l.lock.Lock()
	l.batch = append(l.batch, b)
	l.lock.Unlock()
	return nil
}

// Flush implements hal.Flusher. The pending batch is discarded even if
// sending fails.
func (l *PacketLink) Flush() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.batch) == 0 {
		return nil
	}
	pkt, err := l.Encoder.Encode(l.batch)
	l.batch = l.batch[:0]
	if err != nil {
		return err
	}
	return l.ReadWriter.WritePacket(pkt)
}

// TryReadByte implements hal.Transport.
func (l *PacketLink) TryReadByte() (byte, bool) {
	return l.inbox.tryGet()
}

// Run reads packets until ctx is done or the reader fails.
// If the ReadWriter is an io.Closer it is closed on exit.
func (l *PacketLink) Run(ctx context.Context) error {
	if closer, ok := l.ReadWriter.(io.Closer); ok {
		defer closer.Close()
	}
	errCh := make(chan error, 1)
	go func() {
		for {
			pkt, err := l.ReadWriter.ReadPacket()
			if err != nil {
				errCh <- err
				return
			}
			if glog.V(2) {
				if ack, err := msgs.DecodeAck(pkt); err == nil {
					glog.Infof("ACK session=%s seq=%d", ack.GetSession(), ack.GetSeq())
				}
			}
			l.inbox.put(AckByte)
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		glog.Errorf("uplink read packet: %v", err)
		return err
	}
}
