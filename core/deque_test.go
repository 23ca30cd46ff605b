package core

import (
	"sync"
	"testing"
)

type fakeRunnable struct {
	id int
	ch chan int
}

func (f *fakeRunnable) run(endpointID int) {
	if f.ch != nil {
		f.ch <- f.id
	}
}

func TestWorkDeque_EmptyReturnsNil(t *testing.T) {
	d := newWorkDeque()
	if h := d.popFront(); h != nil {
		t.Fatalf("popFront on empty deque = %v, want nil", h)
	}
	if h := d.popBack(); h != nil {
		t.Fatalf("popBack on empty deque = %v, want nil", h)
	}
}

func TestWorkDeque_PopFrontIsLIFO(t *testing.T) {
	d := newWorkDeque()
	d.pushFront(&fakeRunnable{id: 1})
	d.pushFront(&fakeRunnable{id: 2})
	d.pushFront(&fakeRunnable{id: 3})

	want := []int{3, 2, 1}
	for _, w := range want {
		h := d.popFront().(*fakeRunnable)
		if h.id != w {
			t.Fatalf("popFront() = %d, want %d", h.id, w)
		}
	}
	if d.popFront() != nil {
		t.Fatal("expected deque to be empty")
	}
}

func TestWorkDeque_PopBackIsFIFO(t *testing.T) {
	d := newWorkDeque()
	d.pushFront(&fakeRunnable{id: 1})
	d.pushFront(&fakeRunnable{id: 2})
	d.pushFront(&fakeRunnable{id: 3})

	want := []int{1, 2, 3}
	for _, w := range want {
		h := d.popBack().(*fakeRunnable)
		if h.id != w {
			t.Fatalf("popBack() = %d, want %d", h.id, w)
		}
	}
	if d.popBack() != nil {
		t.Fatal("expected deque to be empty")
	}
}

func TestWorkDeque_ConcurrentOwnerAndThieves(t *testing.T) {
	d := newWorkDeque()
	const n = 5000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			d.pushFront(&fakeRunnable{id: i})
		}
	}()
	wg.Wait()

	seen := make(map[int]bool, n)
	var mu sync.Mutex

	drain := func(pop func() runnable) {
		for {
			h := pop()
			if h == nil {
				return
			}
			r := h.(*fakeRunnable)
			mu.Lock()
			if seen[r.id] {
				t.Errorf("id %d observed twice", r.id)
			}
			seen[r.id] = true
			mu.Unlock()
		}
	}

	var thieves sync.WaitGroup
	for i := 0; i < 8; i++ {
		thieves.Add(1)
		go func() {
			defer thieves.Done()
			drain(d.popBack)
		}()
	}
	drain(d.popFront)
	thieves.Wait()

	if len(seen) != n {
		t.Fatalf("observed %d distinct items, want %d", len(seen), n)
	}
}
