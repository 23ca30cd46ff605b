package forkjoin

import "github.com/kade-holloway/go-forkjoin/core"

type (
	// Task is the unit of work a pool schedules. See core.Task.
	Task[V any] = core.Task[V]

	// ForkJoinTask is embedded in a concrete task type to give it strict,
	// single-fork/single-join Fork and Join methods. See core.ForkJoinTask.
	ForkJoinTask[V any] = core.ForkJoinTask[V]

	// MultiForkJoinTask is the permissive, multi-fork/LIFO-joined
	// counterpart to ForkJoinTask. See core.MultiForkJoinTask.
	MultiForkJoinTask[V any] = core.MultiForkJoinTask[V]

	// Pool is a fork-join task pool. See core.Pool.
	Pool = core.Pool

	// PoolConfig configures a Pool. See core.PoolConfig.
	PoolConfig = core.PoolConfig

	// Strategy selects a Pool's internal scheduling engine. See core.Strategy.
	Strategy = core.Strategy

	// Logger receives pool lifecycle and diagnostic events. See core.Logger.
	Logger = core.Logger

	// DefaultLogger logs to the standard library's log package. See core.DefaultLogger.
	DefaultLogger = core.DefaultLogger

	// NoOpLogger discards every log message. See core.NoOpLogger.
	NoOpLogger = core.NoOpLogger

	// Field is a structured logging key-value pair. See core.Field.
	Field = core.Field

	// Metrics receives task duration, panic, queue depth, and steal events.
	// See core.Metrics.
	Metrics = core.Metrics

	// PanicHandler is invoked when a forked task's Compute panics. See
	// core.PanicHandler.
	PanicHandler = core.PanicHandler

	// PoolStats is a point-in-time snapshot of a Pool's scheduling state.
	// See core.PoolStats.
	PoolStats = core.PoolStats

	// ExecutionRecord is one entry in a Pool's execution history. See
	// core.ExecutionRecord.
	ExecutionRecord = core.ExecutionRecord
)

const (
	// StrategyWorkStealing is the default scheduling engine: per-endpoint
	// deques, cyclic stealing, owner-LIFO/thief-FIFO.
	StrategyWorkStealing = core.StrategyWorkStealing

	// StrategySingleQueue is the alternative engine: one shared queue and lock.
	StrategySingleQueue = core.StrategySingleQueue
)

// F creates a new Field with the given key and value.
func F(key string, value any) Field {
	return core.F(key, value)
}

// NewDefaultLogger creates a DefaultLogger.
func NewDefaultLogger() *DefaultLogger {
	return core.NewDefaultLogger()
}

// Sentinel errors returned by Fork, Join, Invoke, and NewPool.
var (
	ErrInvalidConfig  = core.ErrInvalidConfig
	ErrPoolTerminated = core.ErrPoolTerminated
	ErrNotInPool      = core.ErrNotInPool
	ErrAlreadyForked  = core.ErrAlreadyForked
	ErrNotForked      = core.ErrNotForked
	ErrWrongPool      = core.ErrWrongPool
	ErrAlreadyJoined  = core.ErrAlreadyJoined
)
