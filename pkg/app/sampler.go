package app

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/robotalks/telelink/pkg/framework"
	"github.com/robotalks/telelink/pkg/hal"
	"github.com/robotalks/telelink/pkg/pool"
)

// Sampler is the producer: one sample per wake-up into the buffer
// it holds, handing the buffer over once full.
type Sampler struct {
	State   *State
	Source  hal.SampleSource
	Timings Timings
}

// Control implements Controller.
func (s *Sampler) Control(cc fx.ControlContext) error {
	err := s.Step(cc.Context())
	if s.State.ConfigChanged.TryTake() {
		period := s.State.Period()
		cc.SetInterval(s.Timings.SampleInterval(period))
		glog.Infof("sample period changed to %d (%v)", period, cc.Interval())
	}
	return err
}

// Step runs one sampler iteration.
func (s *Sampler) Step(ctx context.Context) error {
	st := s.State
	if st.current == nil {
		b, err := s.acquire(ctx)
		if err != nil {
			return err
		}
		st.current, st.filled = b, 0
	}

	st.current.Bytes()[st.filled] = s.Source.ReadSample()
	st.filled++
	st.counters.samples.Add(1)

	if st.filled == st.current.Len() {
		b := st.current
		st.current = nil
		if err := st.Pool.EnqueueFull(b); err != nil {
			return err
		}
		glog.V(4).Infof("buffer %d queued", b.Index())
	}
	return nil
}

// acquire takes a free buffer, reclaiming the oldest queued one when
// the pool is exhausted. Reclaim is attempted once per call.
func (s *Sampler) acquire(ctx context.Context) (*pool.Buffer, error) {
	p := s.State.Pool
	b, err := p.AcquireFree(ctx, 0)
	if err != pool.ErrTimeout {
		return b, err
	}
	if p.Reclaim() {
		glog.V(2).Info("pool exhausted, oldest queued batch discarded")
		if b, err = p.AcquireFree(ctx, 0); err != pool.ErrTimeout {
			return b, err
		}
	}
	s.State.counters.starvations.Add(1)
	return nil, ErrStarvation
}
