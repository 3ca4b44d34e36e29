package app

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/telelink/pkg/debounce"
	fx "github.com/robotalks/telelink/pkg/framework"
	"github.com/robotalks/telelink/pkg/hal"
)

// InputTask adjusts the sample period from two push buttons.
// Buttons are active low: a falling edge is a press.
type InputTask struct {
	State      *State
	Pins       hal.Pins
	Indicators hal.Indicators
	Store      hal.ConfigStore
	Key        string
	Min, Max   int

	increase *debounce.Debouncer
	decrease *debounce.Debouncer
}

// NewInputTask creates an InputTask with released buttons.
func NewInputTask(st *State, opts *Options, board *Board) *InputTask {
	return &InputTask{
		State:      st,
		Pins:       board.Pins,
		Indicators: board.Indicators,
		Store:      board.Store,
		Key:        opts.PeriodKey,
		Min:        opts.MinPeriod,
		Max:        opts.MaxPeriod,
		increase:   debounce.New(opts.DebounceThreshold, true),
		decrease:   debounce.New(opts.DebounceThreshold, true),
	}
}

// Control implements Controller.
func (t *InputTask) Control(cc fx.ControlContext) error {
	return t.Poll()
}

// Poll samples both buttons once and applies accepted presses.
func (t *InputTask) Poll() error {
	incRaw := t.Pins.ReadPin(hal.PinIncrease)
	decRaw := t.Pins.ReadPin(hal.PinDecrease)
	t.increase.Update(incRaw)
	t.decrease.Update(decRaw)
	t.Indicators.SetIndicator(hal.IndicatorIncrease, !incRaw)
	t.Indicators.SetIndicator(hal.IndicatorDecrease, !decRaw)

	inc, dec := t.increase.Falling(), t.decrease.Falling()
	if !inc && !dec {
		return nil
	}
	// Presses landing in the same poll don't cancel: increase wins
	// unless the period is already at Max.
	period := t.State.Period()
	switch {
	case inc && period < t.Max:
		return t.adjust(1)
	case dec && period > t.Min:
		return t.adjust(-1)
	}
	glog.V(2).Infof("sample period %d at bound [%d, %d], press ignored", period, t.Min, t.Max)
	return nil
}

func (t *InputTask) adjust(delta int) error {
	st := t.State
	period := st.Period() + delta
	if period < t.Min || period > t.Max {
		glog.V(2).Infof("sample period %d out of [%d, %d], ignored", period, t.Min, t.Max)
		return nil
	}
	st.period.Store(int32(period))

	var err error
	if t.Store != nil {
		if storeErr := t.Store.Store(t.Key, period); storeErr != nil {
			st.counters.persistFailures.Add(1)
			err = fmt.Errorf("%w: %v", ErrPersist, storeErr)
		}
	}
	st.ConfigChanged.Raise()
	return err
}
