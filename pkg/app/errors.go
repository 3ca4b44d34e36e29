package app

import "errors"

var (
	// ErrStarvation indicates the sampler found no free buffer even
	// after reclaiming; the sample of this cycle is lost.
	ErrStarvation = errors.New("buffer starvation")
	// ErrUnderrun indicates the streamer got no full buffer in time,
	// which usually means the sampler stalled.
	ErrUnderrun = errors.New("buffer underrun")
	// ErrAckTimeout indicates a forwarded batch was not acknowledged.
	ErrAckTimeout = errors.New("acknowledgment timeout")
	// ErrPersist indicates the sample period could not be stored.
	// The in-memory value stays in effect.
	ErrPersist = errors.New("persist sample period")
	// ErrInvalidOptions wraps option validation failures.
	ErrInvalidOptions = errors.New("invalid options")
)
