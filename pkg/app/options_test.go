package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimings(t *testing.T) {
	d := DefaultTimings()
	require.Equal(t, 10*time.Millisecond, d.SampleInterval(0))
	require.Equal(t, 100*time.Millisecond, d.SampleInterval(9))

	require.Equal(t, d, d.Scaled(1))
	require.Equal(t, d, d.Scaled(0))
	s := d.Scaled(3)
	require.Equal(t, 30*time.Millisecond, s.PeriodUnit)
	require.Equal(t, 3*time.Second, s.FullTimeout)
	require.Equal(t, 120*time.Millisecond, s.InputPoll)
	require.Equal(t, 3*time.Second, s.FaultHold)
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())

	opts.DefaultPeriod = 10
	require.True(t, errors.Is(opts.Validate(), ErrInvalidOptions))

	opts = DefaultOptions()
	opts.Timings.AuxPeriod = 0
	require.True(t, errors.Is(opts.Validate(), ErrInvalidOptions))
}
