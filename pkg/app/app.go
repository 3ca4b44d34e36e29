// Package app wires the streaming tasks around the shared buffer pool.
//
// Six tasks run concurrently:
//
//	sampler      fills pool buffers at the configured sample period
//	streamer     forwards full buffers and waits for acknowledgment
//	aux          samples the scale vector into the mailbox
//	ack          polls the transport for acknowledgment bytes
//	input        debounces the period buttons and persists changes
//	fault        latches the fault indicator after a missed acknowledgment
package app

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/robotalks/telelink/pkg/framework"
	"github.com/robotalks/telelink/pkg/hal"
	"github.com/robotalks/telelink/pkg/pool"
)

// App owns the shared state and the tasks.
type App struct {
	Options Options
	State   *State

	board Board
	tasks []fx.Runnable
}

// New validates the options, loads the persisted sample period and
// builds the tasks. A failed load falls back to the default period.
func New(opts Options, board Board) (*App, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := board.validate(); err != nil {
		return nil, err
	}
	a := &App{Options: opts, board: board}
	a.State = NewState(opts.Buffers, opts.BufferSize, a.loadPeriod())
	a.tasks = a.buildTasks()
	return a, nil
}

func (a *App) loadPeriod() int {
	opts, board := &a.Options, &a.board
	if board.Store == nil {
		return opts.DefaultPeriod
	}
	board.Indicators.SetIndicator(hal.IndicatorBusy, true)
	defer board.Indicators.SetIndicator(hal.IndicatorBusy, false)
	period, err := board.Store.Load(opts.PeriodKey)
	switch {
	case err != nil:
		glog.Warningf("load sample period: %v, using default %d", err, opts.DefaultPeriod)
		period = opts.DefaultPeriod
	case period < opts.MinPeriod:
		glog.Warningf("stored sample period %d below %d, clamped", period, opts.MinPeriod)
		period = opts.MinPeriod
	case period > opts.MaxPeriod:
		glog.Warningf("stored sample period %d above %d, clamped", period, opts.MaxPeriod)
		period = opts.MaxPeriod
	}
	glog.Infof("sample period: %d", period)
	return period
}

func (a *App) buildTasks() []fx.Runnable {
	opts, board, st := &a.Options, &a.board, a.State
	t := opts.Timings
	sampler := &Sampler{State: st, Source: board.Samples, Timings: t}
	return []fx.Runnable{
		fx.NewLoop("sampler", t.SampleInterval(st.Period()), sampler).
			WithPriority(fx.PrLvSample),
		fx.Task("streamer", fx.PrLvStream,
			&Streamer{State: st, Transport: board.Transport, Timings: t}),
		fx.NewLoop("ack", t.AckPoll, &AckListener{State: st, Transport: board.Transport}).
			WithPriority(fx.PrLvStream),
		fx.NewLoop("input", t.InputPoll, NewInputTask(st, opts, board)).
			WithPriority(fx.PrLvControl),
		fx.Task("fault", fx.PrLvControl,
			&FaultLatch{State: st, Indicators: board.Indicators, Hold: t.FaultHold}),
		fx.NewLoop("aux", t.AuxPeriod, &AuxSampler{State: st, Source: board.Vectors}).
			WithPriority(fx.PrLvSense),
	}
}

// Tasks returns the runnables, to be started by a Runner.
func (a *App) Tasks() []fx.Runnable {
	return a.tasks
}

// Run runs all tasks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	return fx.NewRunnerWith(ctx).Go(a.tasks...).Wait()
}

// Stats returns the current counters.
func (a *App) Stats() Stats {
	return a.State.Stats()
}

// Period returns the current sample period.
func (a *App) Period() int {
	return a.State.Period()
}

// Pool returns the shared buffer pool.
func (a *App) Pool() *pool.Pool {
	return a.State.Pool
}
