package core

import (
	"reflect"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// History is a fixed-capacity ring buffer of recently executed handles,
// grounded on the teacher's executionHistory (core/task_history.go) — same
// head/count ring-buffer shape, retargeted from completed TaskRunner
// closures to completed fork-join handles.
type History struct {
	mu    sync.Mutex
	items []ExecutionRecord
	head  int
	count int
}

func newHistory(capacity int) *History {
	if capacity < 1 {
		capacity = defaultHistoryCapacity
	}
	return &History{items: make([]ExecutionRecord, capacity)}
}

// Add records a completed handle execution, overwriting the oldest entry
// once the ring buffer is full.
func (h *History) Add(record ExecutionRecord) {
	if h == nil || len(h.items) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items[h.head] = record
	h.head = (h.head + 1) % len(h.items)
	if h.count < len(h.items) {
		h.count++
	}
}

// Recent returns up to limit records, most recent first. limit <= 0 returns
// everything currently retained.
func (h *History) Recent(limit int) []ExecutionRecord {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return nil
	}
	if limit <= 0 || limit > h.count {
		limit = h.count
	}

	out := make([]ExecutionRecord, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (h.head - 1 - i + len(h.items)) % len(h.items)
		out = append(out, h.items[idx])
	}
	return out
}

// MarshalSnapshot encodes the currently retained records as msgpack, for
// shipping to offline tooling without pulling a JSON dependency into the
// hot path.
func (h *History) MarshalSnapshot() ([]byte, error) {
	return msgpack.Marshal(h.Recent(0))
}

// taskLabel resolves a human-readable identifier for a task instance,
// defaulting to its Go type name via reflection — the same fallback the
// teacher's resolveTaskName applies to anonymous closures.
func taskLabel(task any) string {
	if task == nil {
		return "anonymous"
	}
	if named, ok := task.(interface{ Label() string }); ok {
		if l := named.Label(); l != "" {
			return l
		}
	}
	t := reflect.TypeOf(task)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
