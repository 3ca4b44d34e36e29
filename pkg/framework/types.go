package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Prioritized is implemented by tasks carrying a scheduling priority.
// Lower values are more urgent.
type Prioritized interface {
	Priority() int
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Controller defines the logic executed once per loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// TimeSource provides the time for controlling logic.
type TimeSource interface {
	Time() time.Time
}

// ControlContext provides the context of current control
// iteration.
type ControlContext interface {
	TimeSource
	// Context retrieves context.Context.
	Context() context.Context
	// Iteration is the zero-based count of iterations run so far.
	Iteration() uint64

	LoopControl
}

// LoopControl exposes access to the periodic loop.
type LoopControl interface {
	// Interval gets the current wake-up period.
	Interval() time.Duration
	// SetInterval changes the wake-up period. The new period
	// applies from the next scheduled wake-up.
	SetInterval(time.Duration)
	// TriggerNext schedules the next iteration to be executed
	// immediately after the current iteration.
	TriggerNext()
}

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefine priority levels
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense is the alias of priority level for auxiliary sensors.
	PrLvSense = PrLvHigh
	// PrLvControl is the alias of priority level for input handling
	// and fault indication.
	PrLvControl = PrLvNormal
	// PrLvStream is the alias of priority level for the uplink.
	PrLvStream = PrLvLow
	// PrLvSample is the alias of priority level for the bulk sampler.
	PrLvSample = PrLvIdle - 1
)
