package core

import (
	"sync"

	"github.com/eapache/queue"
)

// singleQueueEngine backs StrategySingleQueue: one shared FIFO queue, one
// lock, and a condition variable, instead of one deque per endpoint plus
// cyclic stealing. Grounded on the original's version2 Pool, which trades
// the per-endpoint deque design for a single central queue when work-
// stealing's cache locality does not matter enough to justify its
// complexity.
//
// github.com/eapache/queue backs the ring buffer itself: an amortized O(1)
// ring-buffer queue that resizes by doubling, the same shape the original's
// central queue implementation grows.
type singleQueueEngine struct {
	mu     sync.Mutex
	cond   *sync.Cond
	q      *queue.Queue
	closed bool
}

func newSingleQueueEngine() *singleQueueEngine {
	e := &singleQueueEngine{q: queue.New()}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// push enqueues h and wakes one blocked worker, if any.
func (e *singleQueueEngine) push(h runnable) {
	e.mu.Lock()
	e.q.Add(h)
	e.mu.Unlock()
	e.cond.Signal()
}

// pop is the non-blocking variant used while helping a Join wait on a
// specific handle: a caller with a done condition to poll cannot
// afford to block indefinitely on the condition variable.
func (e *singleQueueEngine) pop() runnable {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.q.Length() == 0 {
		return nil
	}
	h := e.q.Peek().(runnable)
	e.q.Remove()
	return h
}

// popBlocking is the variant a dedicated worker goroutine runs: it sleeps
// on the condition variable instead of polling, and only returns nil once
// the engine has been closed and drained, which is the worker's signal to
// exit.
func (e *singleQueueEngine) popBlocking() runnable {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.q.Length() == 0 && !e.closed {
		e.cond.Wait()
	}
	if e.q.Length() == 0 {
		return nil
	}
	h := e.q.Peek().(runnable)
	e.q.Remove()
	return h
}

// length reports the current queue depth, for Pool.Stats.
func (e *singleQueueEngine) length() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.q.Length()
}

// close marks the engine closed and wakes every blocked worker. Workers
// already draining the queue keep going until it is empty before exiting.
func (e *singleQueueEngine) close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.cond.Broadcast()
}
