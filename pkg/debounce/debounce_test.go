package debounce

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDebounce(t *testing.T) {
	testCases := []struct {
		name      string
		threshold int
		samples   []bool
		edges     []bool
		final     bool
	}{
		{
			name:      "stable high",
			threshold: 2,
			samples:   []bool{true, true, true},
			edges:     []bool{false, false, false},
			final:     true,
		},
		{
			name:      "press",
			threshold: 2,
			samples:   []bool{false, false, false, false},
			edges:     []bool{false, true, false, false},
			final:     false,
		},
		{
			name:      "bounce rejected",
			threshold: 2,
			samples:   []bool{false, true, false, true, true},
			edges:     []bool{false, false, false, false, false},
			final:     true,
		},
		{
			name:      "press and release",
			threshold: 2,
			samples:   []bool{false, false, true, true},
			edges:     []bool{false, true, false, true},
			final:     true,
		},
		{
			name:      "threshold one",
			threshold: 0,
			samples:   []bool{false, true},
			edges:     []bool{true, true},
			final:     true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(tc.threshold, true)
			for i, sample := range tc.samples {
				require.Equalf(t, tc.edges[i], d.Update(sample), "sample[%d]", i)
				require.Equal(t, tc.edges[i], d.Edge())
				require.Equal(t, sample, d.Raw())
			}
			require.Equal(t, tc.final, d.High())
		})
	}
}

func TestFallingRising(t *testing.T) {
	d := New(1, true)
	d.Update(false)
	require.True(t, d.Falling())
	require.False(t, d.Rising())
	d.Update(false)
	require.False(t, d.Falling())
	d.Update(true)
	require.True(t, d.Rising())
}
