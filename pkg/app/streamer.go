package app

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/telelink/pkg/hal"
	"github.com/robotalks/telelink/pkg/pool"
)

// Streamer is the consumer: it forwards each full buffer, scaled by the
// latest aux vector, and then expects an acknowledgment. Delivery is at
// most once; an unacknowledged batch raises the fault signal and is
// not resent.
type Streamer struct {
	State     *State
	Transport hal.Transport
	Timings   Timings
}

// Run implements Runnable.
func (s *Streamer) Run(ctx context.Context) error {
	for {
		err := s.Step(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			glog.Errorf("streamer: %v", err)
		}
	}
}

// Step forwards at most one batch.
func (s *Streamer) Step(ctx context.Context) error {
	st := s.State
	b, err := st.Pool.AcquireFull(ctx, s.Timings.FullTimeout)
	switch {
	case err == pool.ErrTimeout:
		st.counters.underruns.Add(1)
		return ErrUnderrun
	case err != nil:
		return err
	}

	if v, ok := st.Aux.TryRecv(); ok {
		st.scale = v
	}
	// A late reply to an earlier batch must not acknowledge this one,
	// whether still queued on the transport or already raised.
	if n := s.drainInbound(); n > 0 {
		glog.V(4).Infof("streamer: dropped %d stale inbound bytes", n)
	}
	st.Ack.Clear()
	writeErr := s.forward(b.Bytes(), st.scale[0])
	if err := st.Pool.Release(b); err != nil {
		return err
	}
	st.counters.batches.Add(1)
	if writeErr != nil {
		st.counters.writeErrors.Add(1)
		glog.Errorf("streamer: batch %d: %v", b.Index(), writeErr)
	}

	if err := st.Ack.Wait(ctx, s.Timings.AckTimeout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		st.counters.ackTimeouts.Add(1)
		st.Fault.Raise()
		return ErrAckTimeout
	}
	glog.V(4).Info("batch acknowledged")
	return nil
}

func (s *Streamer) drainInbound() (n int) {
	for ; n < maxAckBytesPerPoll; n++ {
		if _, ok := s.Transport.TryReadByte(); !ok {
			break
		}
	}
	return n
}

func (s *Streamer) forward(samples []byte, scale float32) error {
	for n, sample := range samples {
		if err := s.Transport.WriteByte(ScaleSample(sample, scale)); err != nil {
			return fmt.Errorf("write sample %d: %w", n, err)
		}
	}
	if f, ok := s.Transport.(hal.Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
	}
	return nil
}

// ScaleSample multiplies a raw sample by scale, truncating and
// saturating the result to a byte.
func ScaleSample(sample byte, scale float32) byte {
	v := float32(sample) * scale
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
