package pool

import (
	"context"
	"encoding/binary"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustAcquireFree(t *testing.T, p *Pool) *Buffer {
	b, err := p.AcquireFree(context.Background(), 0)
	require.NoError(t, err)
	return b
}

func fill(b *Buffer, val byte) {
	for i := range b.Bytes() {
		b.Bytes()[i] = val
	}
}

func TestNewPool(t *testing.T) {
	p := New(4, 8)
	require.Equal(t, 4, p.Cap())
	require.Equal(t, 8, p.BufferSize())
	require.Equal(t, Stats{Free: 4}, p.Stats())
	require.NoError(t, p.Check())
	require.Panics(t, func() { New(0, 8) })
}

func TestLifecycle(t *testing.T) {
	p := New(2, 4)
	ctx := context.Background()

	b := mustAcquireFree(t, p)
	require.Equal(t, StateProducer, p.StateOf(b.Index()))
	require.Len(t, b.Bytes(), 4)

	require.NoError(t, p.EnqueueFull(b))
	require.Equal(t, StateQueued, p.StateOf(b.Index()))

	got, err := p.AcquireFull(ctx, 0)
	require.NoError(t, err)
	require.True(t, b == got, "same buffer")
	require.Equal(t, StateConsumer, p.StateOf(b.Index()))

	require.NoError(t, p.Release(got))
	require.Equal(t, StateFree, p.StateOf(b.Index()))
	require.NoError(t, p.Check())
}

func TestOwnershipErrors(t *testing.T) {
	p, other := New(2, 4), New(1, 4)

	b := mustAcquireFree(t, p)
	require.True(t, errors.Is(p.Release(b), ErrNotOwned))
	require.True(t, errors.Is(p.EnqueueFull(nil), ErrNotOwned))
	require.True(t, errors.Is(other.EnqueueFull(b), ErrNotOwned))

	require.NoError(t, p.EnqueueFull(b))
	require.True(t, errors.Is(p.EnqueueFull(b), ErrNotOwned), "double enqueue")
	require.NoError(t, p.Check())
}

func TestTimeouts(t *testing.T) {
	p := New(1, 1)
	ctx := context.Background()

	_, err := p.AcquireFull(ctx, 0)
	require.Equal(t, ErrTimeout, err)

	start := time.Now()
	_, err = p.AcquireFull(ctx, 20*time.Millisecond)
	require.Equal(t, ErrTimeout, err)
	require.True(t, time.Since(start) >= 20*time.Millisecond)

	mustAcquireFree(t, p)
	_, err = p.AcquireFree(ctx, 10*time.Millisecond)
	require.Equal(t, ErrTimeout, err)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.AcquireFree(cctx, -1)
	require.Equal(t, context.Canceled, err)
}

func TestAcquireFullWakesOnEnqueue(t *testing.T) {
	p := New(2, 1)
	resultCh := make(chan *Buffer, 1)
	go func() {
		b, err := p.AcquireFull(context.Background(), time.Second)
		if err != nil {
			resultCh <- nil
			return
		}
		resultCh <- b
	}()
	time.Sleep(5 * time.Millisecond)
	b := mustAcquireFree(t, p)
	require.NoError(t, p.EnqueueFull(b))
	select {
	case got := <-resultCh:
		require.True(t, b == got, "same buffer")
	case <-time.After(time.Second):
		t.Fatal("consumer not woken")
	}
}

func TestFIFO(t *testing.T) {
	p := New(4, 2)
	var order []int
	for i := 0; i < 4; i++ {
		b := mustAcquireFree(t, p)
		fill(b, byte(i))
		order = append(order, b.Index())
		require.NoError(t, p.EnqueueFull(b))
	}
	for i := 0; i < 4; i++ {
		b, err := p.AcquireFull(context.Background(), 0)
		require.NoError(t, err)
		require.Equal(t, order[i], b.Index())
		require.Equal(t, []byte{byte(i), byte(i)}, b.Bytes())
		require.NoError(t, p.Release(b))
	}
}

func TestReclaimLiveness(t *testing.T) {
	p := New(3, 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, p.EnqueueFull(mustAcquireFree(t, p)))
	}
	_, err := p.AcquireFree(context.Background(), 0)
	require.Equal(t, ErrTimeout, err)

	require.True(t, p.Reclaim())
	b := mustAcquireFree(t, p)
	require.NotNil(t, b)
	require.Equal(t, 3, p.Cap())
	require.Equal(t, Stats{Queued: 2, Producer: 1, Reclaimed: 1}, p.Stats())
	require.NoError(t, p.Check())
}

func TestReclaimEmpty(t *testing.T) {
	p := New(2, 1)
	mustAcquireFree(t, p)
	b := mustAcquireFree(t, p)
	require.NoError(t, p.EnqueueFull(b))
	_, err := p.AcquireFull(context.Background(), 0)
	require.NoError(t, err)
	// One buffer with the producer, one with the consumer: nothing to reclaim.
	require.False(t, p.Reclaim())
	require.Equal(t, uint64(0), p.Stats().Reclaimed)
}

// Pool of 4 buffers of 8 bytes, five batches filled with no consumer
// in between: exactly one overflow, which discards the oldest batch.
func TestOverflowScenario(t *testing.T) {
	p := New(4, 8)
	ctx := context.Background()
	for batch := 1; batch <= 5; batch++ {
		b, err := p.AcquireFree(ctx, 0)
		if err == ErrTimeout {
			require.True(t, p.Reclaim())
			b, err = p.AcquireFree(ctx, 0)
		}
		require.NoError(t, err)
		fill(b, byte(batch))
		require.NoError(t, p.EnqueueFull(b))
		require.NoError(t, p.Check())
	}
	require.Equal(t, uint64(1), p.Stats().Reclaimed)

	var got []byte
	for {
		b, err := p.AcquireFull(ctx, 0)
		if err != nil {
			require.Equal(t, ErrTimeout, err)
			break
		}
		got = append(got, b.Bytes()[0])
		require.NoError(t, p.Release(b))
	}
	require.Equal(t, []byte{2, 3, 4, 5}, got)
}

func TestPartitionUnderConcurrency(t *testing.T) {
	p := New(4, 16)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	var lastSeen uint64
	var orderErr error
	go func() {
		defer wg.Done()
		var seq uint64
		for ctx.Err() == nil {
			b, err := p.AcquireFree(ctx, 0)
			if err == ErrTimeout {
				p.Reclaim()
				continue
			}
			if err != nil {
				return
			}
			seq++
			binary.LittleEndian.PutUint64(b.Bytes(), seq)
			if err := p.EnqueueFull(b); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			b, err := p.AcquireFull(ctx, 10*time.Millisecond)
			if err != nil {
				continue
			}
			seq := binary.LittleEndian.Uint64(b.Bytes())
			if seq <= lastSeen && orderErr == nil {
				orderErr = errors.New("out of order batch")
			}
			lastSeen = seq
			if rand.Intn(4) == 0 {
				time.Sleep(time.Millisecond)
			}
			if err := p.Release(b); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			if err := p.Check(); err != nil {
				t.Error(err)
				return
			}
			s := p.Stats()
			if total := s.Free + s.Queued + s.Producer + s.Consumer; total != 4 {
				t.Errorf("partition covers %d buffers", total)
				return
			}
		}
	}()
	wg.Wait()
	require.NoError(t, orderErr)
	require.NoError(t, p.Check())
}
