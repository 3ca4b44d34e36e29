// Package sema provides payload-free binary signals.
package sema

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout indicates the signal was not raised within the timeout.
var ErrTimeout = errors.New("sema: timeout")

// Signal is a single-permit event. Raising an already pending signal is
// a no-op, so repeated raises before a Wait collapse into one.
type Signal struct {
	ch chan struct{}
}

// New creates a Signal in the cleared state.
func New() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Raise sets the signal if not already pending. It never blocks.
func (s *Signal) Raise() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// TryTake consumes the pending signal, if any.
func (s *Signal) TryTake() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Clear discards a pending signal.
func (s *Signal) Clear() {
	s.TryTake()
}

// Wait consumes the signal, blocking until it's raised, the timeout
// elapses or ctx is done. A negative timeout waits without bound.
func (s *Signal) Wait(ctx context.Context, timeout time.Duration) error {
	if s.TryTake() {
		return nil
	}
	var deadline <-chan time.Time
	switch {
	case timeout == 0:
		return ErrTimeout
	case timeout > 0:
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	select {
	case <-s.ch:
		return nil
	case <-deadline:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
