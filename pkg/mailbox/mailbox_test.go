package mailbox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/telelink/pkg/hal"
)

func TestEmpty(t *testing.T) {
	m := New()
	_, ok := m.TryRecv()
	require.False(t, ok)
}

func TestIdempotentRead(t *testing.T) {
	m := New()
	m.Send(hal.Vec3{1, 2, 3})
	val, ok := m.TryRecv()
	require.True(t, ok)
	require.Equal(t, hal.Vec3{1, 2, 3}, val)
	_, ok = m.TryRecv()
	require.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	m := New()
	m.Send(hal.Vec3{1, 1, 1})
	m.Send(hal.Vec3{2, 2, 2})
	val, ok := m.TryRecv()
	require.True(t, ok)
	require.Equal(t, hal.Vec3{2, 2, 2}, val)
	require.Equal(t, uint64(1), m.Drops())
	_, ok = m.TryRecv()
	require.False(t, ok)
}

func TestConcurrentSendRecv(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 1000; i++ {
			m.Send(hal.Vec3{float32(i), float32(i), float32(i)})
		}
	}()
	var last float32
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if val, ok := m.TryRecv(); ok {
				// Components are written together and the writer is monotonic.
				if val[0] != val[1] || val[1] != val[2] || val[0] < last {
					t.Errorf("torn or stale value %v after %v", val, last)
					return
				}
				last = val[0]
			}
		}
	}()
	wg.Wait()
}
