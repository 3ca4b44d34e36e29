package app

import (
	"fmt"
	"time"

	"github.com/robotalks/telelink/pkg/hal"
)

// Timings groups every period and timeout used by the tasks.
type Timings struct {
	// PeriodUnit scales the sample period: the sampler wakes every
	// (period+1)*PeriodUnit.
	PeriodUnit time.Duration
	// FullTimeout bounds the streamer's wait for a full buffer.
	FullTimeout time.Duration
	// AckTimeout bounds the wait for an acknowledgment after a batch.
	AckTimeout time.Duration
	// AckPoll is the inbound transport polling period.
	AckPoll time.Duration
	// InputPoll is the debounce polling period of the config task.
	InputPoll time.Duration
	// AuxPeriod is the auxiliary vector sampling period.
	AuxPeriod time.Duration
	// FaultHold is how long the fault indicator stays latched.
	FaultHold time.Duration
}

// DefaultTimings returns the timings of the reference board.
func DefaultTimings() Timings {
	return Timings{
		PeriodUnit:  10 * time.Millisecond,
		FullTimeout: time.Second,
		AckTimeout:  500 * time.Millisecond,
		AckPoll:     10 * time.Millisecond,
		InputPoll:   40 * time.Millisecond,
		AuxPeriod:   100 * time.Millisecond,
		FaultHold:   time.Second,
	}
}

// Scaled multiplies every duration by n, to slow the whole system down
// for debugging.
func (t Timings) Scaled(n int) Timings {
	if n <= 1 {
		return t
	}
	m := time.Duration(n)
	return Timings{
		PeriodUnit:  t.PeriodUnit * m,
		FullTimeout: t.FullTimeout * m,
		AckTimeout:  t.AckTimeout * m,
		AckPoll:     t.AckPoll * m,
		InputPoll:   t.InputPoll * m,
		AuxPeriod:   t.AuxPeriod * m,
		FaultHold:   t.FaultHold * m,
	}
}

// SampleInterval converts a sample period into the sampler wake-up interval.
func (t Timings) SampleInterval(period int) time.Duration {
	return time.Duration(period+1) * t.PeriodUnit
}

// Options configures an App.
type Options struct {
	Buffers    int
	BufferSize int

	MinPeriod     int
	MaxPeriod     int
	DefaultPeriod int

	DebounceThreshold int
	// PeriodKey is the ConfigStore key of the sample period.
	PeriodKey string

	Timings Timings
}

// DefaultOptions returns the options of the reference board.
func DefaultOptions() Options {
	return Options{
		Buffers:           4,
		BufferSize:        32,
		MinPeriod:         0,
		MaxPeriod:         9,
		DefaultPeriod:     0,
		DebounceThreshold: 2,
		PeriodKey:         "sample_period",
		Timings:           DefaultTimings(),
	}
}

// Validate checks the options are consistent.
func (o *Options) Validate() error {
	switch {
	case o.Buffers < 1:
		return fmt.Errorf("%w: buffers must be positive", ErrInvalidOptions)
	case o.BufferSize < 1:
		return fmt.Errorf("%w: buffer size must be positive", ErrInvalidOptions)
	case o.MinPeriod < 0 || o.MinPeriod > o.MaxPeriod:
		return fmt.Errorf("%w: period range [%d, %d]", ErrInvalidOptions, o.MinPeriod, o.MaxPeriod)
	case o.DefaultPeriod < o.MinPeriod || o.DefaultPeriod > o.MaxPeriod:
		return fmt.Errorf("%w: default period %d outside [%d, %d]", ErrInvalidOptions, o.DefaultPeriod, o.MinPeriod, o.MaxPeriod)
	case o.PeriodKey == "":
		return fmt.Errorf("%w: period key required", ErrInvalidOptions)
	}
	t := o.Timings
	for name, d := range map[string]time.Duration{
		"period unit":  t.PeriodUnit,
		"full timeout": t.FullTimeout,
		"ack timeout":  t.AckTimeout,
		"ack poll":     t.AckPoll,
		"input poll":   t.InputPoll,
		"aux period":   t.AuxPeriod,
		"fault hold":   t.FaultHold,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidOptions, name)
		}
	}
	return nil
}

// Board bundles the collaborators the tasks talk to.
// Store may be nil, which disables persistence.
type Board struct {
	Samples    hal.SampleSource
	Vectors    hal.VectorSource
	Transport  hal.Transport
	Store      hal.ConfigStore
	Pins       hal.Pins
	Indicators hal.Indicators
}

func (b *Board) validate() error {
	switch {
	case b.Samples == nil:
		return fmt.Errorf("%w: sample source required", ErrInvalidOptions)
	case b.Vectors == nil:
		return fmt.Errorf("%w: vector source required", ErrInvalidOptions)
	case b.Transport == nil:
		return fmt.Errorf("%w: transport required", ErrInvalidOptions)
	case b.Pins == nil:
		return fmt.Errorf("%w: input pins required", ErrInvalidOptions)
	case b.Indicators == nil:
		return fmt.Errorf("%w: indicators required", ErrInvalidOptions)
	}
	return nil
}
