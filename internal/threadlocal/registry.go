// Package threadlocal implements a process-wide mapping from the calling
// goroutine's identity to a LIFO stack of arbitrary values.
//
// Go gives no direct equivalent of a Java Thread or an OS thread handle to
// key a map on, so identity here is the numeric goroutine ID that the
// runtime prints as the first field of its own stack dump. Parsing it is
// the same trick a handful of goroutine-local-storage shims in the wider
// Go ecosystem use; it is stable for as long as the goroutine that owns a
// given stack entry is still running, which is exactly the lifetime a
// registry entry needs.
package threadlocal

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// Registry maps goroutine identity to a LIFO stack of values.
//
// Only the goroutine that pushed an entry ever reads or pops it, so the
// per-entry stack's own mutex is never contended; the sync.Map guards
// concurrent registration/deregistration of different goroutines against
// each other.
type Registry struct {
	entries sync.Map // goroutineID uint64 -> *stack
}

type stack struct {
	mu     sync.Mutex
	values []any
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Attach pushes v onto the calling goroutine's stack.
func (r *Registry) Attach(v any) {
	id := goroutineID()
	s, _ := r.entries.LoadOrStore(id, &stack{})
	st := s.(*stack)
	st.mu.Lock()
	st.values = append(st.values, v)
	st.mu.Unlock()
}

// Detach pops the calling goroutine's most recently attached value.
// Removing the last entry deletes the goroutine's record from the registry.
func (r *Registry) Detach() {
	id := goroutineID()
	s, ok := r.entries.Load(id)
	if !ok {
		return
	}
	st := s.(*stack)
	st.mu.Lock()
	if n := len(st.values); n > 0 {
		st.values[n-1] = nil
		st.values = st.values[:n-1]
	}
	empty := len(st.values) == 0
	st.mu.Unlock()

	if empty {
		r.entries.Delete(id)
	}
}

// Current returns the calling goroutine's top-of-stack value, or nil if the
// goroutine has never attached (or has since detached down to empty).
func (r *Registry) Current() any {
	id := goroutineID()
	s, ok := r.entries.Load(id)
	if !ok {
		return nil
	}
	st := s.(*stack)
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.values) == 0 {
		return nil
	}
	return st.values[len(st.values)-1]
}

// Depth returns the calling goroutine's current stack depth. It exists for
// tests that assert re-entrant Attach/Detach pairs leave depth unchanged.
func (r *Registry) Depth() int {
	id := goroutineID()
	s, ok := r.entries.Load(id)
	if !ok {
		return 0
	}
	st := s.(*stack)
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.values)
}

// goroutineID extracts the numeric ID from the "goroutine NNN [state]:"
// header line that runtime.Stack always writes first.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
