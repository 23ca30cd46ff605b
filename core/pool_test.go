package core_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kade-holloway/go-forkjoin/core"
)

func TestNewPool_RejectsInvalidConfig(t *testing.T) {
	if _, err := core.NewPool(core.PoolConfig{NumWorkers: -1}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("negative NumWorkers: got %v, want ErrInvalidConfig", err)
	}
	if _, err := core.NewPool(core.PoolConfig{SleepDuration: -time.Millisecond}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("negative SleepDuration: got %v, want ErrInvalidConfig", err)
	}
}

func TestPool_InvokeAfterTerminateIsRejected(t *testing.T) {
	pool, err := core.NewPool(core.PoolConfig{NumWorkers: 2})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	pool.Terminate()
	defer pool.Wait()

	if _, err := core.Invoke[int](pool, newNoopTask(1)); !errors.Is(err, core.ErrPoolTerminated) {
		t.Fatalf("Invoke after Terminate: got %v, want ErrPoolTerminated", err)
	}
}

func TestPool_TerminateIsIdempotentAndConcurrencySafe(t *testing.T) {
	pool, err := core.NewPool(core.PoolConfig{NumWorkers: 4})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Terminate()
		}()
	}
	wg.Wait()

	if !pool.Terminated() {
		t.Fatal("pool should report Terminated after concurrent Terminate calls")
	}
	pool.Terminate() // must not panic or block
	pool.Wait()
}

func TestPool_TerminateDuringInFlightInvokeLetsItFinish(t *testing.T) {
	pool, err := core.NewPool(core.PoolConfig{NumWorkers: 4})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	const n = int64(2_000_000)
	const want = n * (n - 1) / 2

	resultCh := make(chan int64, 1)
	errCh := make(chan error, 1)
	go func() {
		result, err := core.Invoke[int64](pool, newSumTask(0, n))
		resultCh <- result
		errCh <- err
	}()

	// Give the invocation a moment to start forking before terminating.
	time.Sleep(2 * time.Millisecond)
	pool.Terminate()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Invoke: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("in-flight Invoke did not finish after Terminate")
	}
	if got := <-resultCh; got != want {
		t.Fatalf("sum = %d, want %d", got, want)
	}
	pool.Wait()
}

// selfTerminatingTask calls Terminate on its own pool from inside Compute,
// then reports that it ran. This only completes if Terminate returns
// without blocking: the handle is picked up by a worker goroutine that is a
// member of the pool's errgroup, so a Terminate that waited for that same
// group would deadlock the goroutine running this Compute.
type selfTerminatingTask struct {
	core.ForkJoinTask[int]
	pool *core.Pool
	ran  chan struct{}
}

func (t *selfTerminatingTask) Compute() int {
	t.pool.Terminate()
	close(t.ran)
	return 7
}

// forkAndAbandonTask forks child and returns without joining it, so child
// can only be picked up by a worker stealing it, never by the forking
// goroutine popping its own deque.
type forkAndAbandonTask struct {
	core.ForkJoinTask[int]
	child *selfTerminatingTask
}

func (t *forkAndAbandonTask) Compute() int {
	if err := t.child.Fork(); err != nil {
		panic(err)
	}
	return 0
}

func TestPool_TerminateFromWorkerDoesNotDeadlock(t *testing.T) {
	pool, err := core.NewPool(core.PoolConfig{NumWorkers: 2})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	child := &selfTerminatingTask{pool: pool, ran: make(chan struct{})}
	child.Init(child)
	parent := &forkAndAbandonTask{child: child}
	parent.Init(parent)

	if _, err := core.Invoke[int](pool, parent); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	select {
	case <-child.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("forked task calling Terminate on its own pool never completed; Terminate blocked")
	}

	pool.Wait()
	if !pool.Terminated() {
		t.Fatal("pool should report Terminated")
	}
}

func TestPool_StatsReportsStrategyAndWorkerCount(t *testing.T) {
	pool, err := core.NewPool(core.PoolConfig{NumWorkers: 3})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Wait()
	defer pool.Terminate()

	stats := pool.Stats()
	if stats.Workers != 3 {
		t.Fatalf("Workers = %d, want 3", stats.Workers)
	}
	if stats.Strategy != core.StrategyWorkStealing {
		t.Fatalf("Strategy = %v, want StrategyWorkStealing", stats.Strategy)
	}
	if stats.Terminated {
		t.Fatal("Terminated = true before Terminate was called")
	}
}

func TestPool_SingleQueueStrategyComputesSameResult(t *testing.T) {
	pool, err := core.NewPool(core.PoolConfig{NumWorkers: 4, Strategy: core.StrategySingleQueue})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Wait()
	defer pool.Terminate()

	const n = int64(500_000)
	want := n * (n - 1) / 2

	got, err := core.Invoke[int64](pool, newSumTask(0, n))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != want {
		t.Fatalf("sum = %d, want %d", got, want)
	}
}

// panicTask panics unconditionally, to exercise the recover-and-redeliver
// path through both Join and Invoke.
type panicTask struct {
	core.ForkJoinTask[int]
}

func (t *panicTask) Compute() int { panic("boom") }

func TestInvoke_RedeliversTaskPanic(t *testing.T) {
	pool, err := core.NewPool(core.PoolConfig{NumWorkers: 1})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Wait()
	defer pool.Terminate()

	task := &panicTask{}
	task.Init(task)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Invoke to re-panic, got nil")
		}
		if r != "boom" {
			t.Fatalf("recovered panic = %v, want %q", r, "boom")
		}
	}()
	core.Invoke[int](pool, task)
	t.Fatal("unreachable: Invoke should have panicked")
}

// joinPanicTask forks a task that panics, then joins it, expecting the
// panic to surface on Join.
type joinPanicTask struct {
	core.ForkJoinTask[int]
	child *panicTask
}

func (t *joinPanicTask) Compute() int {
	if err := t.child.Fork(); err != nil {
		panic(err)
	}
	_, err := t.child.Join()
	if err != nil {
		panic(err)
	}
	return 0
}

func TestJoin_RedeliversForkedTaskPanic(t *testing.T) {
	pool, err := core.NewPool(core.PoolConfig{NumWorkers: 2})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Wait()
	defer pool.Terminate()

	child := &panicTask{}
	child.Init(child)
	parent := &joinPanicTask{child: child}
	parent.Init(parent)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Invoke to re-panic from the joined child, got nil")
		}
	}()
	core.Invoke[int](pool, parent)
	t.Fatal("unreachable: Invoke should have panicked")
}

// depthProbeTask is a minimal task invoked on a different pool than its
// caller, to exercise the registry stack rather than Fork/Join.
type depthProbeTask struct {
	core.ForkJoinTask[int]
}

func (t *depthProbeTask) Compute() int {
	return 1
}

func TestInvoke_NestedAcrossPoolsRestoresBinding(t *testing.T) {
	poolA, err := core.NewPool(core.PoolConfig{NumWorkers: 2})
	if err != nil {
		t.Fatalf("NewPool A: %v", err)
	}
	defer poolA.Wait()
	defer poolA.Terminate()

	poolB, err := core.NewPool(core.PoolConfig{NumWorkers: 2})
	if err != nil {
		t.Fatalf("NewPool B: %v", err)
	}
	defer poolB.Wait()
	defer poolB.Terminate()

	outer := &nestedOuterTask{inner: poolB}
	outer.Init(outer)

	got, err := core.Invoke[int](poolA, outer)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != 43 {
		t.Fatalf("got = %d, want 43", got)
	}
}

// nestedOuterTask forks a child under poolA (its own pool), invokes a
// second task under poolB from inside Compute, then joins the poolA child —
// checking that the goroutine's binding to poolA survives the nested
// Invoke of poolB and is restored afterward.
type nestedOuterTask struct {
	core.ForkJoinTask[int]
	inner *core.Pool
}

func (t *nestedOuterTask) Compute() int {
	child := newNoopTask(41)
	if err := child.Fork(); err != nil {
		panic(err)
	}

	probe := &depthProbeTask{}
	probe.Init(probe)
	one, err := core.Invoke[int](t.inner, probe)
	if err != nil {
		panic(err)
	}

	v, err := child.Join()
	if err != nil {
		panic(err)
	}
	return v + one
}
