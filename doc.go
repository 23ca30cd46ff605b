// Package forkjoin provides a work-stealing fork-join task pool for
// parallel divide-and-conquer computation.
//
// A Task splits itself into subtasks, forks one, computes the other
// inline, and joins the forked subtask to combine results:
//
//	type sumTask struct {
//		forkjoin.ForkJoinTask[int64]
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
//		left := sumDirect(t.lo, mid)
//		r, err := right.Join()
//		if err != nil {
//			panic(err)
//		}
//		return left + r
//	}
//
//	pool, _ := forkjoin.NewDefaultPool()
//	defer pool.Wait()
//	defer pool.Terminate()
//	total, err := forkjoin.Invoke[int64](pool, newSumTask(0, n))
//
// Every exported type here is a generic alias for its counterpart in the
// core package; core holds the implementation, this package is the stable
// public surface.
package forkjoin
