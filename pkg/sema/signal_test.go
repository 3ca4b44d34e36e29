package sema

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRaiseCoalesces(t *testing.T) {
	s := New()
	require.False(t, s.TryTake())
	s.Raise()
	s.Raise()
	s.Raise()
	require.True(t, s.TryTake())
	require.False(t, s.TryTake())
}

func TestWait(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.Equal(t, ErrTimeout, s.Wait(ctx, 0))
	require.Equal(t, ErrTimeout, s.Wait(ctx, 5*time.Millisecond))

	s.Raise()
	require.NoError(t, s.Wait(ctx, 0))

	go func() {
		time.Sleep(5 * time.Millisecond)
		s.Raise()
	}()
	require.NoError(t, s.Wait(ctx, -1))

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	require.Equal(t, context.Canceled, s.Wait(cctx, -1))
}

func TestClear(t *testing.T) {
	s := New()
	s.Raise()
	s.Clear()
	require.False(t, s.TryTake())
}
