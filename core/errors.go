package core

import "errors"

// Sentinel errors for the programmer-usage failures a fork-join pool can
// raise. None of these represent transient runtime conditions; all are
// surfaced to the caller immediately and never retried internally.
var (
	// ErrInvalidConfig is returned by NewPool when NumWorkers or
	// SleepDuration is negative.
	ErrInvalidConfig = errors.New("forkjoin: invalid pool configuration")

	// ErrPoolTerminated is returned by Invoke once Terminate has been called.
	ErrPoolTerminated = errors.New("forkjoin: pool has been terminated")

	// ErrNotInPool is returned by Fork or Join when the calling goroutine is
	// not currently attached to any pool.
	ErrNotInPool = errors.New("forkjoin: not attached to any pool")

	// ErrAlreadyForked is returned by Fork when the task already has a
	// pending or completed evaluation installed.
	ErrAlreadyForked = errors.New("forkjoin: task already forked")

	// ErrNotForked is returned by Join when no matching Fork has occurred.
	ErrNotForked = errors.New("forkjoin: task has not been forked")

	// ErrWrongPool is returned by Join when the calling goroutine is
	// attached to a different pool than the one Fork ran under.
	ErrWrongPool = errors.New("forkjoin: join attempted from a different pool than fork")

	// ErrAlreadyJoined is returned by Join when the task's fork has already
	// been consumed by a previous Join.
	ErrAlreadyJoined = errors.New("forkjoin: task already joined")
)
