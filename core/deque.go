package core

import "sync"

// runnable is the type-erased interface a work deque stores. EvaluationHandle[V]
// implements it for every V, which is what lets a single non-generic Pool
// schedule tasks of many different result types side by side.
type runnable interface {
	run(endpointID int)
}

// workDeque is a double-ended queue of runnables. The owning endpoint calls
// pushFront/popFront; any endpoint (including the owner) may call popBack to
// steal. All three are safe for concurrent use.
//
// The teacher's FIFOTaskQueue (core/queue.go) protects a single growable
// slice with one mutex; a lock-free split bottom/top array (as sketched in
// other_examples/domino14-macondo__workdeque.go and
// other_examples/Tahsin716-flock__chase_lev_deque.go) buys throughput this
// spec does not require at the cost of a fixed capacity or a much larger
// surface to get right without being able to run the race detector. This
// keeps the teacher's single-mutex/growable-slice shape and only adds the
// second removal end, which is enough to give the happens-before guarantee
// section 4.1 asks for: the mutex's lock/unlock pair is itself a full
// acquire/release barrier, so anything written before pushFront is visible
// to whichever goroutine's popFront/popBack call observes the pushed value.
type workDeque struct {
	mu    sync.Mutex
	items []runnable
}

func newWorkDeque() *workDeque {
	return &workDeque{items: make([]runnable, 0, 16)}
}

// pushFront inserts h so it will be the next value popFront returns.
func (d *workDeque) pushFront(h runnable) {
	d.mu.Lock()
	d.items = append(d.items, h)
	d.mu.Unlock()
}

// popFront removes and returns the most recently pushed item (LIFO), giving
// the owner cache locality with the sub-tasks it just forked. Returns nil on
// an empty deque.
func (d *workDeque) popFront() runnable {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(d.items)
	if n == 0 {
		return nil
	}
	h := d.items[n-1]
	d.items[n-1] = nil
	d.items = d.items[:n-1]
	return h
}

// popBack removes and returns the oldest pending item (FIFO), which is the
// deepest-in-stack and typically largest unit of work — the one a thief
// wants, to minimize the number of future steals it will need to make.
// Returns nil on an empty deque.
func (d *workDeque) popBack() runnable {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.items) == 0 {
		return nil
	}
	h := d.items[0]
	d.items[0] = nil
	d.items = d.items[1:]
	return h
}

// size reports the current number of pending items, for observability only.
func (d *workDeque) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
