package core

import (
	"fmt"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task's Compute panics during execution.
// This allows custom panic handling, logging, and recovery strategies.
//
// Implementations should be thread-safe as they may be called concurrently
// from any worker goroutine or external caller.
type PanicHandler interface {
	// HandlePanic is called when a forked task's Compute panics.
	//
	// Parameters:
	// - label: A human-readable identifier for the task (its Go type name, unless overridden).
	// - endpointID: The index of the endpoint that was executing the handle, -1 for the external endpoint.
	// - panicInfo: The panic value recovered from the task.
	// - stackTrace: The stack trace at the time of panic.
	HandlePanic(label string, endpointID int, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler provides a basic panic handler that logs to stdout.
type DefaultPanicHandler struct{}

// HandlePanic prints panic information to stdout.
func (h *DefaultPanicHandler) HandlePanic(label string, endpointID int, panicInfo any, stackTrace []byte) {
	if endpointID >= 0 {
		fmt.Printf("[endpoint %d] task %q panicked: %v\n%s", endpointID, label, panicInfo, stackTrace)
	} else {
		fmt.Printf("[external] task %q panicked: %v\n%s", label, panicInfo, stackTrace)
	}
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting fork-join pool metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// All methods are optional; implementations should handle nil receivers gracefully.
// Methods should be non-blocking and fast, since they are called from the hot
// path of every handle execution and every successful steal.
type Metrics interface {
	// RecordTaskDuration records how long a forked task's Compute took.
	RecordTaskDuration(label string, duration time.Duration)

	// RecordTaskPanic records that a forked task's Compute panicked.
	RecordTaskPanic(label string, panicInfo any)

	// RecordQueueDepth records the current depth of one endpoint's deque.
	RecordQueueDepth(endpointID int, depth int)

	// RecordSteal records a successful steal from one endpoint's deque by another.
	RecordSteal(thiefEndpointID, victimEndpointID int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(label string, duration time.Duration) {}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(label string, panicInfo any) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(endpointID int, depth int) {}

// RecordSteal is a no-op.
func (m *NilMetrics) RecordSteal(thiefEndpointID, victimEndpointID int) {}
