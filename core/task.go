package core

import "sync"

// Task is the unit of work a pool schedules. Compute is called at most once
// per fork and does the actual divide-and-conquer work: decide whether the
// input is small enough to finish directly, or split it, fork one half,
// compute the other half inline, and Join the forked half to combine.
type Task[V any] interface {
	Compute() V
}

// forkState tracks the strict single-fork/single-join lifecycle a
// ForkJoinTask enforces.
type forkState int

const (
	stateUnforked forkState = iota
	stateForked
	stateJoined
)

// ForkJoinTask is embedded in a concrete task type to give it Fork and Join.
// It enforces the strict discipline described in the design: exactly one
// Fork, followed by exactly one Join, in that order, from the goroutine
// that is a member of the pool the task was forked under.
//
//	type sumTask struct {
//		core.ForkJoinTask[int64]
//		lo, hi int64
//	}
//
//	func newSumTask(lo, hi int64) *sumTask {
//		t := &sumTask{lo: lo, hi: hi}
//		t.Init(t)
//		return t
//	}
//
//	func (t *sumTask) Compute() int64 {
//		if t.hi-t.lo <= leafSize {
//			return sumDirect(t.lo, t.hi)
//		}
//		mid := t.lo + (t.hi-t.lo)/2
//		right := newSumTask(mid, t.hi)
//		right.Fork()
//		left := sumDirect(t.lo, mid) // computed inline, not via a second fork
//		r, err := right.Join()
//		if err != nil {
//			panic(err)
//		}
//		return left + r
//	}
//
// The explicit Init call is Go's substitute for the original's inheritance:
// Task[V] cannot see its own embedder, so the embedder hands ForkJoinTask a
// reference to itself once, at construction.
type ForkJoinTask[V any] struct {
	mu    sync.Mutex
	self  Task[V]
	state forkState

	handle *EvaluationHandle[V]
	pool   *Pool
}

// Init records self as the Task[V] this embed forks and joins. It must be
// called once, before Fork, typically from the embedding type's
// constructor.
func (t *ForkJoinTask[V]) Init(self Task[V]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.self = self
}

// Fork submits the task for asynchronous execution on the calling
// goroutine's current pool. It returns ErrNotInPool if the caller is not
// currently a worker or inside an Invoke call, and ErrAlreadyForked if this
// task has already been forked.
func (t *ForkJoinTask[V]) Fork() error {
	sampler := currentSampler()
	if sampler == nil {
		return ErrNotInPool
	}

	t.mu.Lock()
	if t.state != stateUnforked {
		t.mu.Unlock()
		return ErrAlreadyForked
	}
	h := newEvaluationHandle[V](t.self, sampler.pool)
	t.handle = h
	t.pool = sampler.pool
	t.state = stateForked
	t.mu.Unlock()

	sampler.push(h)
	return nil
}

// Join blocks until the forked handle completes, helping the pool make
// progress on other work in the meantime, and returns its result.
//
// Failures are checked in this order: ErrNotInPool if the calling goroutine
// is not currently bound to any pool, ErrNotForked if Fork was never
// called, ErrWrongPool if the caller is bound to a different pool than the
// one Fork ran under, and ErrAlreadyJoined if Join has already consumed
// this fork. If the task's Compute panicked, Join re-panics with the same
// value on the joining goroutine once the result is claimed.
func (t *ForkJoinTask[V]) Join() (V, error) {
	var zero V

	sampler := currentSampler()
	if sampler == nil {
		return zero, ErrNotInPool
	}

	t.mu.Lock()
	if t.state == stateUnforked {
		t.mu.Unlock()
		return zero, ErrNotForked
	}
	if sampler.pool != t.pool {
		t.mu.Unlock()
		return zero, ErrWrongPool
	}
	if t.state == stateJoined {
		t.mu.Unlock()
		return zero, ErrAlreadyJoined
	}
	h := t.handle
	t.state = stateJoined
	t.mu.Unlock()

	sampler.helpUntil(h.isComplete)

	if h.recovered != nil {
		panic(h.recovered)
	}
	return h.result, nil
}

// MultiForkJoinTask is the permissive counterpart to ForkJoinTask: it
// allows any number of Fork calls, matching each Join to the most recently
// unjoined Fork (LIFO), the way a caller who forks several subtasks in a
// loop and joins them in reverse order expects. It is an opt-in extension
// for tasks that do not fit the strict single-fork/single-join shape —
// most tasks should use ForkJoinTask instead.
type MultiForkJoinTask[V any] struct {
	mu    sync.Mutex
	self  Task[V]
	pool  *Pool
	stack []*EvaluationHandle[V]
}

// Init records self as the Task[V] this embed forks and joins. It must be
// called once, before the first Fork.
func (t *MultiForkJoinTask[V]) Init(self Task[V]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.self = self
}

// Fork submits another asynchronous execution of self, independent of any
// previous or future fork of the same task. Every successful Fork must
// eventually be matched by a Join.
func (t *MultiForkJoinTask[V]) Fork() error {
	sampler := currentSampler()
	if sampler == nil {
		return ErrNotInPool
	}

	t.mu.Lock()
	if t.pool != nil && t.pool != sampler.pool {
		t.mu.Unlock()
		return ErrWrongPool
	}
	t.pool = sampler.pool
	h := newEvaluationHandle[V](t.self, sampler.pool)
	t.stack = append(t.stack, h)
	t.mu.Unlock()

	sampler.push(h)
	return nil
}

// Join waits for the most recently forked, not-yet-joined execution and
// returns its result, matching fork/join pairs LIFO. It returns
// ErrNotForked if every prior fork has already been joined.
func (t *MultiForkJoinTask[V]) Join() (V, error) {
	var zero V

	sampler := currentSampler()
	if sampler == nil {
		return zero, ErrNotInPool
	}

	t.mu.Lock()
	if t.pool != nil && t.pool != sampler.pool {
		t.mu.Unlock()
		return zero, ErrWrongPool
	}
	n := len(t.stack)
	if n == 0 {
		t.mu.Unlock()
		return zero, ErrNotForked
	}
	h := t.stack[n-1]
	t.stack = t.stack[:n-1]
	t.mu.Unlock()

	sampler.helpUntil(h.isComplete)

	if h.recovered != nil {
		panic(h.recovered)
	}
	return h.result, nil
}

// Pending reports how many forks are still awaiting a Join.
func (t *MultiForkJoinTask[V]) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stack)
}
