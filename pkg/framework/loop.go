package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Loop runs a Controller periodically.
// Wake-ups are scheduled against absolute deadlines, so the period
// doesn't drift with the time spent in the controller. When an
// iteration overruns its deadline the schedule restarts from now
// instead of bursting to catch up.
type Loop struct {
	Controller Controller

	name     string
	priority int
	interval time.Duration
	lock     sync.Mutex

	wakeUpCh chan struct{}
}

type loopIteration struct {
	*Loop
	ctx       context.Context
	time      time.Time
	iteration uint64
}

// NewLoop creates a Loop.
func NewLoop(name string, interval time.Duration, ctl Controller) *Loop {
	return &Loop{
		Controller: ctl,
		name:       name,
		priority:   PrLvNormal,
		interval:   interval,
		wakeUpCh:   make(chan struct{}, 1),
	}
}

// WithPriority sets the priority reported to the Runner.
func (l *Loop) WithPriority(priority int) *Loop {
	l.priority = priority
	return l
}

// Name implements Named.
func (l *Loop) Name() string {
	return l.name
}

// Priority implements Prioritized.
func (l *Loop) Priority() int {
	return l.priority
}

// Interval implements LoopControl.
func (l *Loop) Interval() time.Duration {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.interval
}

// SetInterval implements LoopControl.
func (l *Loop) SetInterval(interval time.Duration) {
	l.lock.Lock()
	l.interval = interval
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	next := time.Now()
	for n := uint64(0); ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-l.wakeUpCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			next = time.Now()
		}

		iter := &loopIteration{Loop: l, ctx: ctx, time: time.Now(), iteration: n}
		if err := l.Controller.Control(iter); err != nil {
			glog.Errorf("%s: %v", l.name, err)
		}

		interval := l.Interval()
		if interval <= 0 {
			interval = time.Millisecond
		}
		now := time.Now()
		if next = next.Add(interval); next.Before(now) {
			next = now
		}
		timer.Reset(next.Sub(now))
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) Iteration() uint64 {
	return t.iteration
}
