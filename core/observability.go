package core

import "time"

// ExecutionRecord captures one completed handle execution — a forked task
// that reached run(), whether or not the goroutine that ran it is the one
// that eventually joins it.
type ExecutionRecord struct {
	Label      string
	ForkedAt   time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Panicked   bool
}

// PoolStats represents runtime observability state for a Pool, sampled at
// call time. It backs both direct polling and the Prometheus snapshot
// poller in observability/prometheus.
type PoolStats struct {
	Strategy   Strategy
	Workers    int
	QueueDepth int
	Steals     int64
	Misses     int64
	Terminated bool
}
