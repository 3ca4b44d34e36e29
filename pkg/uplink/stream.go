package uplink

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/telelink/pkg/framework"
)

// Stream is a byte link over an io.ReadWriter.
// Written bytes are buffered until Flush.
type Stream struct {
	ReadWriter io.ReadWriter
	// ReadTimeout is set if Read returns periodically without data
	// (e.g. a serial port opened with a read timeout).
	ReadTimeout bool

	inbox *inbox
	lock  sync.Mutex
	w     *bufio.Writer
}

// NewStream creates a Stream.
func NewStream(rw io.ReadWriter) *Stream {
	return &Stream{
		ReadWriter: rw,
		inbox:      newInbox(DefaultInboxSize),
		w:          bufio.NewWriter(rw),
	}
}

// WriteByte implements hal.Transport.
func (s *Stream) WriteByte(b byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.w.WriteByte(b)
}

// Flush implements hal.Flusher.
func (s *Stream) Flush() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.w.Flush()
}

// TryReadByte implements hal.Transport.
func (s *Stream) TryReadByte() (byte, bool) {
	return s.inbox.tryGet()
}

// Dropped returns the number of received bytes dropped on a full inbox.
func (s *Stream) Dropped() uint64 {
	return s.inbox.dropped.Load()
}

// Run reads from the ReadWriter until ctx is done or Read fails.
// If the ReadWriter is an io.Closer it is closed on exit.
func (s *Stream) Run(ctx context.Context) error {
	if closer, ok := s.ReadWriter.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, func() error {
			return s.readLoop(ctx)
		})
	}
	return s.readLoop(ctx)
}

func (s *Stream) readLoop(ctx context.Context) error {
	buf := make([]byte, DefaultInboxSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := s.ReadWriter.Read(buf)
		for _, b := range buf[:n] {
			s.inbox.put(b)
		}
		switch {
		case err == nil:
		case s.ReadTimeout && (err == io.EOF || os.IsTimeout(err)):
		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			glog.Errorf("uplink read: %v", err)
			return err
		}
	}
}
