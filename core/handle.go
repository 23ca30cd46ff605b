package core

import (
	"sync/atomic"
	"time"
)

// EvaluationHandle is a one-shot container tying a Task[V] to its
// asynchronous execution. It is created by Fork, enqueued on the forking
// goroutine's deque, and dequeued exactly once — by some endpoint, possibly
// the same goroutine — before its result becomes visible to Join.
//
// complete is written with atomic.Bool.Store (release) by the evaluating
// goroutine and read with Load (acquire) by the joining goroutine; that pair
// is the evaluation -> join happens-before chain. The fork -> evaluation
// chain rides on the work deque's mutex instead (see workDeque). Once
// complete is observed true, result and recovered
// are safe to read without further synchronization because they were
// written strictly before the release store.
type EvaluationHandle[V any] struct {
	task     Task[V]
	pool     *Pool
	label    string
	forkedAt time.Time

	complete  atomic.Bool
	result    V
	recovered any
}

func newEvaluationHandle[V any](task Task[V], pool *Pool) *EvaluationHandle[V] {
	return &EvaluationHandle[V]{
		task:     task,
		pool:     pool,
		label:    taskLabel(task),
		forkedAt: time.Now(),
	}
}

// run executes the task's Compute exactly once and publishes the result (or
// a recovered panic) with release semantics. It satisfies the runnable
// interface so a workDeque can hold handles of arbitrary result type V.
//
// endpointID identifies whoever ended up dequeuing and running the handle —
// not necessarily the goroutine that forked it, since a thief may have
// stolen it first. It is threaded through to the panic handler and metrics
// only; it plays no part in the happens-before chain above.
func (h *EvaluationHandle[V]) run(endpointID int) {
	start := time.Now()
	defer func() {
		finished := time.Now()
		r := recover()
		if r != nil {
			h.recovered = r
		}
		h.complete.Store(true)
		h.pool.recordExecution(h.label, start, finished, r, endpointID)
	}()
	h.result = h.task.Compute()
}

// isComplete performs the acquire read documented on the struct.
func (h *EvaluationHandle[V]) isComplete() bool {
	return h.complete.Load()
}
