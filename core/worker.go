package core

import "time"

// runWorker is the main loop of one pool worker goroutine. It attaches the
// worker's sampler to the thread-to-pool registry for its entire lifetime —
// unlike the external sampler, which is attached only for the duration of
// an Invoke call — binds the worker's goroutine identity to sampler, and
// runs until the pool is terminated.
func runWorker(pool *Pool, sampler *Sampler) {
	attachSampler(sampler)
	pool.config.Logger.Info("worker registered", F("endpoint", sampler.id))
	defer func() {
		detachSampler()
		pool.config.Logger.Info("worker deregistered", F("endpoint", sampler.id))
	}()

	if pool.usesSingleQueue() {
		for {
			h := pool.singleQueue.popBlocking()
			if h == nil {
				return
			}
			h.run(sampler.id)
		}
	}

	for {
		select {
		case <-pool.stopCh:
			return
		default:
		}

		if h := sampler.deque.popFront(); h != nil {
			h.run(sampler.id)
			continue
		}
		if h := sampler.trySteal(); h != nil {
			h.run(sampler.id)
			continue
		}
		time.Sleep(pool.config.SleepDuration)
	}
}
