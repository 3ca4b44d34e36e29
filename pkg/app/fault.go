package app

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/telelink/pkg/hal"
)

// FaultLatch holds the fault indicator on for a fixed time after each
// fault. Faults raised while latched are coalesced into the current
// latch and don't extend it.
type FaultLatch struct {
	State      *State
	Indicators hal.Indicators
	Hold       time.Duration
}

// Run implements Runnable.
func (f *FaultLatch) Run(ctx context.Context) error {
	defer f.Indicators.SetIndicator(hal.IndicatorFault, false)
	for {
		f.Indicators.SetIndicator(hal.IndicatorFault, false)
		if err := f.State.Fault.Wait(ctx, -1); err != nil {
			return err
		}
		f.State.counters.faults.Add(1)
		f.Indicators.SetIndicator(hal.IndicatorFault, true)
		glog.Warningf("fault latched for %v", f.Hold)

		timer := time.NewTimer(f.Hold)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		// A fault raised during the hold is dropped here, not replayed.
		f.State.Fault.Clear()
	}
}
