package core

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pool is a fork-join task pool: a fixed set of worker goroutines that
// cooperatively execute a dynamically growing tree of forked tasks, plus
// one shared endpoint external goroutines borrow while inside Invoke.
//
// Grounded on the teacher's GoroutineThreadPool (pool.go) for the overall
// shape — a struct wrapping a fixed worker count, a logger, metrics, and a
// termination lifecycle — retargeted from a priority task-runner queue to
// the scheduling engine in deque.go/sampler.go/singlequeue.go.
type Pool struct {
	config     PoolConfig
	numWorkers int

	workers  []*Sampler
	external *Sampler

	singleQueue *singleQueueEngine

	history *History

	stopCh chan struct{}
	group  *errgroup.Group

	terminated atomic.Bool
	steals     atomic.Int64
	misses     atomic.Int64
}

// NewPool constructs a Pool from cfg, starting cfg.NumWorkers worker
// goroutines immediately. It returns ErrInvalidConfig if NumWorkers or
// SleepDuration is negative.
func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.NumWorkers < 0 || cfg.SleepDuration < 0 {
		return nil, ErrInvalidConfig
	}
	cfg = cfg.withDefaults()

	p := &Pool{
		config:     cfg,
		numWorkers: cfg.NumWorkers,
		stopCh:     make(chan struct{}),
	}
	if cfg.HistoryCapacity > 0 {
		p.history = newHistory(cfg.HistoryCapacity)
	}

	if cfg.Strategy == StrategySingleQueue {
		p.singleQueue = newSingleQueueEngine()
		p.external = &Sampler{id: -1, pool: p}
		p.workers = make([]*Sampler, cfg.NumWorkers)
		for i := range p.workers {
			p.workers[i] = &Sampler{id: i, pool: p}
		}
	} else {
		n := cfg.NumWorkers
		deques := make([]*workDeque, n+1)
		dequeOwner := make([]int, n+1)
		for i := range deques {
			deques[i] = newWorkDeque()
			dequeOwner[i] = i
		}
		dequeOwner[n] = -1 // slot n is the shared external endpoint

		p.workers = make([]*Sampler, n)
		for i := 0; i < n; i++ {
			others := make([]*workDeque, n)
			otherIDs := make([]int, n)
			for k := 1; k <= n; k++ {
				slot := (i + k) % (n + 1)
				others[k-1] = deques[slot]
				otherIDs[k-1] = dequeOwner[slot]
			}
			p.workers[i] = &Sampler{id: i, deque: deques[i], others: others, otherIDs: otherIDs, pool: p}
		}

		extOthers := make([]*workDeque, n)
		extOtherIDs := make([]int, n)
		for k := 1; k <= n; k++ {
			slot := (n + k) % (n + 1)
			extOthers[k-1] = deques[slot]
			extOtherIDs[k-1] = dequeOwner[slot]
		}
		p.external = &Sampler{id: -1, deque: deques[n], others: extOthers, otherIDs: extOtherIDs, pool: p}
	}

	group, _ := errgroup.WithContext(context.Background())
	p.group = group
	for _, s := range p.workers {
		s := s
		p.group.Go(func() error {
			runWorker(p, s)
			return nil
		})
	}

	p.config.Logger.Info("pool started",
		F("workers", p.numWorkers),
		F("strategy", p.config.Strategy.String()),
	)
	return p, nil
}

// NewDefaultPool constructs a Pool using DefaultPoolConfig.
func NewDefaultPool() (*Pool, error) {
	return NewPool(DefaultPoolConfig())
}

// defaultNumWorkers is GOMAXPROCS, floored at 1 — one worker per available
// CPU, matching how the original sizes its default pool off the runtime's
// processor count.
func defaultNumWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

func (p *Pool) usesSingleQueue() bool {
	return p.config.Strategy == StrategySingleQueue
}

// Terminate sets the terminated flag and returns immediately, without
// waiting for any worker to exit. It is idempotent: calling it more than
// once, including concurrently, is safe and only the first call does any
// work.
//
// Workers observe the flag between handles and exit on their own. Under
// StrategyWorkStealing a worker exits at its next check without draining its
// deque; under StrategySingleQueue workers drain the shared queue first. A
// task already mid-Join when Terminate is called is not interrupted: the
// joining goroutine keeps running its own help loop, which pops and steals
// queued work even after the workers have exited. Call Wait if the caller
// needs to block until every worker has actually exited.
//
// Terminate must return without blocking: a task's Compute may itself call
// Terminate on the pool it is running under, and that call happens on a
// goroutine that is a member of p.group — if Terminate blocked on the
// workers exiting, that goroutine would be waiting on its own exit.
func (p *Pool) Terminate() {
	if !p.terminated.CompareAndSwap(false, true) {
		return
	}
	if p.usesSingleQueue() {
		p.singleQueue.close()
	} else {
		close(p.stopCh)
	}
	p.config.Logger.Info("pool terminating", F("workers", p.numWorkers))
}

// Wait blocks until every worker goroutine has exited following a call to
// Terminate. Calling Wait before Terminate blocks until Terminate is called
// by another goroutine and the workers subsequently exit.
func (p *Pool) Wait() {
	_ = p.group.Wait()
	p.config.Logger.Info("pool terminated", F("workers", p.numWorkers))
}

// Terminated reports whether Terminate has been called.
func (p *Pool) Terminated() bool {
	return p.terminated.Load()
}

// Stats returns a point-in-time snapshot of the pool's scheduling state.
func (p *Pool) Stats() PoolStats {
	depth := 0
	if p.usesSingleQueue() {
		depth = p.singleQueue.length()
	} else {
		for _, s := range p.workers {
			d := s.queueDepth()
			p.config.Metrics.RecordQueueDepth(s.id, d)
			depth += d
		}
		extDepth := p.external.queueDepth()
		p.config.Metrics.RecordQueueDepth(p.external.id, extDepth)
		depth += extDepth
	}

	return PoolStats{
		Strategy:   p.config.Strategy,
		Workers:    p.numWorkers,
		QueueDepth: depth,
		Steals:     p.steals.Load(),
		Misses:     p.misses.Load(),
		Terminated: p.terminated.Load(),
	}
}

// History returns the pool's recent execution records, most recent first,
// or nil if history tracking was disabled in its config.
func (p *Pool) History(limit int) []ExecutionRecord {
	return p.history.Recent(limit)
}

// recordExecution is called by EvaluationHandle.run after every task
// execution, successful or panicked, and by Invoke for a top-level call.
func (p *Pool) recordExecution(label string, start, finished time.Time, panicVal any, endpointID int) {
	dur := finished.Sub(start)
	p.config.Metrics.RecordTaskDuration(label, dur)

	if p.history != nil {
		p.history.Add(ExecutionRecord{
			Label:      label,
			ForkedAt:   start,
			FinishedAt: finished,
			Duration:   dur,
			Panicked:   panicVal != nil,
		})
	}

	if panicVal == nil {
		return
	}
	p.config.Metrics.RecordTaskPanic(label, panicVal)
	p.config.Logger.Error("task panicked",
		F("label", label),
		F("endpoint", endpointID),
		F("panic", panicVal),
	)
	p.config.PanicHandler.HandlePanic(label, endpointID, panicVal, debug.Stack())
}

// attachExternal and detachExternal bind and unbind the calling goroutine
// to this pool's shared external sampler. The registry is a stack, so a
// goroutine already attached to another pool (or this one) via a nested
// Invoke restores its previous binding on detach.
func (p *Pool) attachExternal() {
	attachSampler(p.external)
}

func (p *Pool) detachExternal() {
	detachSampler()
}

// Invoke submits task for execution under pool p and blocks until it
// completes, returning its result. It is the entry point for a goroutine
// that is not already a pool worker; Fork/Join calls made from inside
// task's Compute (directly or transitively) resolve to p.
//
// Invoke is a package-level function rather than a Pool method because Go
// does not allow a method to introduce a new type parameter: p is
// non-generic so that a single Pool can serve Invoke calls for many
// different result types V.
//
// It returns ErrPoolTerminated if p has already been terminated. If task's
// Compute panics, Invoke re-panics with the same value on the calling
// goroutine once the result would have been returned, mirroring Join.
func Invoke[V any](p *Pool, task Task[V]) (V, error) {
	var zero V
	if p.terminated.Load() {
		return zero, ErrPoolTerminated
	}

	p.attachExternal()
	defer p.detachExternal()

	h := newEvaluationHandle[V](task, p)
	h.run(p.external.id)

	if h.recovered != nil {
		panic(h.recovered)
	}
	return h.result, nil
}
