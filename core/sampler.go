package core

import "time"

// Sampler is a scheduling endpoint: something that can hold forked work and
// be asked to make progress. Every worker goroutine owns exactly one for its
// entire lifetime; every external goroutine borrows the pool's single shared
// external sampler for the duration of one Invoke call (including any
// nested Invoke of the same pool from inside that call).
//
// Grounded on the original's EvalSampler/AsyncEvalSampler split: a
// per-worker sampler with a private deque, and one sampler shared by
// however many outside callers currently have work in flight, rather than
// one deque per outside goroutine.
type Sampler struct {
	// id is the worker index (0..numWorkers-1), or -1 for the shared
	// external sampler. It is surfaced to Logger/Metrics/PanicHandler calls
	// only; it does not affect scheduling.
	id int

	// deque is this endpoint's own queue. Unused when the pool runs
	// StrategySingleQueue — nil in that case.
	deque *workDeque

	// others is the precomputed cyclic steal order: for worker i in an
	// n-worker pool, others[k-1] = deques[(i+n+1+k) mod (n+1)] for k in
	// 1..n, walking every other worker deque and the external deque
	// exactly once before repeating. Unused when the pool runs
	// StrategySingleQueue.
	others []*workDeque

	// otherIDs[k] is the endpoint ID that owns others[k] — the worker index
	// it was constructed for, or -1 for the shared external deque. Parallel
	// to others, used only to label RecordSteal's victim.
	otherIDs []int

	pool *Pool
}

// queueDepth reports the pending item count on this endpoint's own deque,
// or 0 under StrategySingleQueue where samplers have no private deque.
func (s *Sampler) queueDepth() int {
	if s.deque == nil {
		return 0
	}
	return s.deque.size()
}

// push installs a freshly forked handle for execution by whichever endpoint
// dequeues it first — this sampler itself via popFront, or a thief via
// popBack.
func (s *Sampler) push(h runnable) {
	if s.pool.usesSingleQueue() {
		s.pool.singleQueue.push(h)
		return
	}
	s.deque.pushFront(h)
}

// trySteal makes one pass over this sampler's cyclic steal order, returning
// the first item it manages to take from another endpoint's back, or nil if
// every one of them was empty.
func (s *Sampler) trySteal() runnable {
	for i, victim := range s.others {
		if h := victim.popBack(); h != nil {
			s.pool.steals.Add(1)
			s.pool.config.Metrics.RecordSteal(s.id, s.otherIDs[i])
			s.pool.config.Logger.Debug("steal", F("thief", s.id), F("victim", s.otherIDs[i]))
			return h
		}
	}
	s.pool.misses.Add(1)
	return nil
}

// helpUntil is the work loop a Join call runs while waiting on a
// handle it does not own the execution of: pop and run whatever this
// sampler can find — its own deque first, then steals — until done reports
// true. A goroutine that helps is never idle while there is work reachable
// from it, which is what keeps a deeply recursive fork/join tree from
// needing anywhere near one OS thread per task.
func (s *Sampler) helpUntil(done func() bool) {
	if s.pool.usesSingleQueue() {
		for !done() {
			if h := s.pool.singleQueue.pop(); h != nil {
				h.run(s.id)
				continue
			}
			time.Sleep(s.pool.config.SleepDuration)
		}
		return
	}

	for !done() {
		if h := s.deque.popFront(); h != nil {
			h.run(s.id)
			continue
		}
		if h := s.trySteal(); h != nil {
			h.run(s.id)
			continue
		}
		time.Sleep(s.pool.config.SleepDuration)
	}
}
