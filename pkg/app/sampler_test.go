package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/telelink/pkg/pool"
)

func counterSource() funcSource {
	var n byte
	return func() byte {
		n++
		return n
	}
}

func TestSamplerFillsAndQueues(t *testing.T) {
	st := NewState(2, 4, 0)
	s := &Sampler{State: st, Source: counterSource(), Timings: testTimings()}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Step(ctx))
	}
	require.Equal(t, pool.Stats{Free: 1, Producer: 1}, st.Pool.Stats())

	require.NoError(t, s.Step(ctx))
	require.Equal(t, pool.Stats{Free: 1, Queued: 1}, st.Pool.Stats())

	b, err := st.Pool.AcquireFull(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())
	require.Equal(t, uint64(4), st.Stats().Samples)
}

// Pool of 4 buffers of 8 bytes and five batches with no consumer:
// the oldest queued batch is discarded once, the rest stay in order.
func TestSamplerOverflowReclaimsOldest(t *testing.T) {
	st := NewState(4, 8, 0)
	var n int
	s := &Sampler{State: st, Timings: testTimings(), Source: funcSource(func() byte {
		n++
		return byte((n-1)/8 + 1)
	})}
	ctx := context.Background()
	for i := 0; i < 5*8; i++ {
		require.NoError(t, s.Step(ctx))
		require.NoError(t, st.Pool.Check())
	}
	require.Equal(t, uint64(1), st.Pool.Stats().Reclaimed)
	require.Equal(t, uint64(0), st.Stats().Starvations)

	var batches []byte
	for {
		b, err := st.Pool.AcquireFull(ctx, 0)
		if err != nil {
			break
		}
		for _, sample := range b.Bytes() {
			require.Equal(t, b.Bytes()[0], sample)
		}
		batches = append(batches, b.Bytes()[0])
		require.NoError(t, st.Pool.Release(b))
	}
	require.Equal(t, []byte{2, 3, 4, 5}, batches)
}

func TestSamplerStarvation(t *testing.T) {
	st := NewState(1, 1, 0)
	s := &Sampler{State: st, Source: counterSource(), Timings: testTimings()}
	ctx := context.Background()

	require.NoError(t, s.Step(ctx))
	b, err := st.Pool.AcquireFull(ctx, 0)
	require.NoError(t, err)

	// The only buffer is with the consumer: nothing to reclaim.
	require.Equal(t, ErrStarvation, s.Step(ctx))
	require.Equal(t, ErrStarvation, s.Step(ctx))
	require.Equal(t, uint64(2), st.Stats().Starvations)
	require.Equal(t, uint64(1), st.Stats().Samples)

	require.NoError(t, st.Pool.Release(b))
	require.NoError(t, s.Step(ctx), "recovers once the consumer drains")
}

func TestSamplerAppliesConfigChange(t *testing.T) {
	st := NewState(2, 4, 0)
	timings := testTimings()
	s := &Sampler{State: st, Source: counterSource(), Timings: timings}
	cc := newFakeControlContext(timings.SampleInterval(0))

	require.NoError(t, s.Control(cc))
	require.Equal(t, time.Millisecond, cc.Interval())

	st.period.Store(4)
	st.ConfigChanged.Raise()
	require.NoError(t, s.Control(cc))
	require.Equal(t, 5*time.Millisecond, cc.Interval())
	require.False(t, st.ConfigChanged.TryTake())

	// The in-flight buffer survives the change.
	require.NoError(t, s.Control(cc))
	require.NoError(t, s.Control(cc))
	b, err := st.Pool.AcquireFull(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())
}
