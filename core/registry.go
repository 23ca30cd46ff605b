package core

import "github.com/kade-holloway/go-forkjoin/internal/threadlocal"

// globalSamplers is the process-wide thread-to-pool binding registry: it
// maps the calling goroutine to a LIFO stack of the samplers it is
// currently executing inside of, which is what lets a worker goroutine of
// pool A call Invoke on pool B and have Fork/Join inside that call resolve
// to B, then fall back to A when it returns.
var globalSamplers = threadlocal.New()

func attachSampler(s *Sampler) {
	globalSamplers.Attach(s)
}

func detachSampler() {
	globalSamplers.Detach()
}

// currentSampler returns the scheduling endpoint the calling goroutine is
// currently bound to, or nil if it was never attached — i.e. it is an
// ordinary goroutine that has never entered Invoke and is not a pool
// worker.
func currentSampler() *Sampler {
	v := globalSamplers.Current()
	if v == nil {
		return nil
	}
	s, _ := v.(*Sampler)
	return s
}
