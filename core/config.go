package core

import "time"

// Strategy selects the internal scheduling engine a Pool uses.
type Strategy int

const (
	// StrategyWorkStealing is the default engine described in the design:
	// per-endpoint deques, cyclic stealing order, owner-LIFO/thief-FIFO.
	StrategyWorkStealing Strategy = iota

	// StrategySingleQueue is the simpler alternative: one shared queue
	// guarded by a single lock and condition variable. It trades
	// throughput for a liveness signal: idle workers wait on the condition
	// variable instead of sleep polling, while a goroutine waiting in Join
	// still polls with SleepDuration between misses.
	StrategySingleQueue
)

func (s Strategy) String() string {
	switch s {
	case StrategyWorkStealing:
		return "work-stealing"
	case StrategySingleQueue:
		return "single-queue"
	default:
		return "unknown"
	}
}

// defaultSleepDuration is the pause an endpoint takes after a full miss
// across its own deque and every other deque it can steal from.
const defaultSleepDuration = time.Millisecond

// defaultHistoryCapacity bounds the in-memory ring buffer of recently
// executed handles that Pool.History returns for diagnostics.
const defaultHistoryCapacity = 256

// PoolConfig holds construction-time configuration for a Pool.
// All fields are optional. NewPool fills in defaults for a nil Logger,
// Metrics or PanicHandler and a zero HistoryCapacity; a zero NumWorkers or
// SleepDuration is kept as given. DefaultPoolConfig sets every field.
type PoolConfig struct {
	// NumWorkers is the number of internal worker goroutines. Must be >= 0.
	NumWorkers int

	// SleepDuration is how long an endpoint pauses after a full miss
	// (its own deque empty, every steal attempt empty). Must be >= 0.
	SleepDuration time.Duration

	// Strategy selects the scheduling engine. Zero value is StrategyWorkStealing.
	Strategy Strategy

	// Logger receives worker lifecycle and diagnostic events. Defaults to NoOpLogger.
	Logger Logger

	// Metrics receives task duration, panic, queue depth, and steal events.
	// Defaults to NilMetrics.
	Metrics Metrics

	// PanicHandler is invoked when a forked task's Compute panics. Defaults
	// to DefaultPanicHandler.
	PanicHandler PanicHandler

	// HistoryCapacity bounds the ring buffer of recently executed handles.
	// Zero selects the default capacity; a negative value disables history
	// tracking.
	HistoryCapacity int
}

// DefaultPoolConfig returns a config with sensible defaults for every field.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		NumWorkers:      defaultNumWorkers(),
		SleepDuration:   defaultSleepDuration,
		Strategy:        StrategyWorkStealing,
		Logger:          &NoOpLogger{},
		Metrics:         &NilMetrics{},
		PanicHandler:    &DefaultPanicHandler{},
		HistoryCapacity: defaultHistoryCapacity,
	}
}

// withDefaults fills in zero-valued fields, leaving explicit values (including
// an explicit NumWorkers/SleepDuration of 0) untouched.
func (c PoolConfig) withDefaults() PoolConfig {
	if c.Logger == nil {
		c.Logger = &NoOpLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = &NilMetrics{}
	}
	if c.PanicHandler == nil {
		c.PanicHandler = &DefaultPanicHandler{}
	}
	if c.HistoryCapacity == 0 {
		c.HistoryCapacity = defaultHistoryCapacity
	}
	return c
}
