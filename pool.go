package forkjoin

import "github.com/kade-holloway/go-forkjoin/core"

// NewPool constructs a Pool from cfg. See core.NewPool.
func NewPool(cfg PoolConfig) (*Pool, error) {
	return core.NewPool(cfg)
}

// NewDefaultPool constructs a Pool using DefaultPoolConfig. See core.NewDefaultPool.
func NewDefaultPool() (*Pool, error) {
	return core.NewDefaultPool()
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults for every field.
func DefaultPoolConfig() PoolConfig {
	return core.DefaultPoolConfig()
}

// Invoke submits task for execution under pool p and blocks until it
// completes. See core.Invoke.
//
// It is a package-level function, not a Pool method, because Go does not
// allow a method to introduce a new type parameter.
func Invoke[V any](p *Pool, task Task[V]) (V, error) {
	return core.Invoke[V](p, task)
}
