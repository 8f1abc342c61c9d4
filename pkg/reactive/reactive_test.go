package reactive

import (
	"sync"
	"sync/atomic"
	"testing"
)

// countingListener records how many times it was marked dirty.
type countingListener struct {
	id    uint64
	count int32
}

func newCountingListener() *countingListener {
	return &countingListener{id: nextID()}
}

func (l *countingListener) MarkDirty() { atomic.AddInt32(&l.count, 1) }
func (l *countingListener) ID() uint64 { return l.id }
func (l *countingListener) Count() int { return int(atomic.LoadInt32(&l.count)) }

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(10)
	if s.Get() != 10 {
		t.Errorf("Get() = %d, want 10", s.Get())
	}
	s.Set(20)
	if s.Get() != 20 {
		t.Errorf("Get() = %d, want 20", s.Get())
	}
}

func TestSignalNotifiesOnChange(t *testing.T) {
	s := NewSignal("a")
	l := newCountingListener()
	stop := s.Subscribe(l)

	s.Set("b")
	if l.Count() != 1 {
		t.Errorf("count = %d, want 1", l.Count())
	}

	// Same value: no notification.
	s.Set("b")
	if l.Count() != 1 {
		t.Errorf("count = %d after equal write, want 1", l.Count())
	}

	stop()
	s.Set("c")
	if l.Count() != 1 {
		t.Errorf("count = %d after unsubscribe, want 1", l.Count())
	}
}

func TestSignalSubscribeDeduplicates(t *testing.T) {
	s := NewSignal(0)
	l := newCountingListener()
	s.Subscribe(l)
	s.Subscribe(l)

	if s.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", s.Subscribers())
	}
	s.Set(1)
	if l.Count() != 1 {
		t.Errorf("count = %d, want 1", l.Count())
	}
	s.Unsubscribe(l)
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", s.Subscribers())
	}
}

func TestSignalAnyValues(t *testing.T) {
	s := NewSignal[any](nil)
	l := newCountingListener()
	s.Subscribe(l)

	steps := []struct {
		value     any
		wantCount int
	}{
		{nil, 0},
		{int64(5), 1},
		{int64(5), 1},
		{"5", 2},
		{[]string{"a"}, 3},
		{[]string{"a"}, 3},
		{nil, 4},
	}
	for i, step := range steps {
		s.Set(step.value)
		if l.Count() != step.wantCount {
			t.Errorf("step %d: count = %d, want %d", i, l.Count(), step.wantCount)
		}
	}
}

func TestSignalUpdate(t *testing.T) {
	s := NewSignal(1)
	l := newCountingListener()
	s.Subscribe(l)

	s.Update(func(v int) int { return v + 1 })
	if s.Get() != 2 || l.Count() != 1 {
		t.Errorf("Get() = %d, count = %d", s.Get(), l.Count())
	}
	s.Update(func(v int) int { return v })
	if l.Count() != 1 {
		t.Errorf("no-op Update notified: count = %d", l.Count())
	}
}

func TestSignalWithEquals(t *testing.T) {
	s := NewSignal(1).WithEquals(func(a, b int) bool { return a%2 == b%2 })
	l := newCountingListener()
	s.Subscribe(l)

	s.Set(3) // same parity
	if l.Count() != 0 || s.Get() != 1 {
		t.Errorf("custom equality ignored: count = %d, value = %d", l.Count(), s.Get())
	}
	s.Set(2)
	if l.Count() != 1 {
		t.Errorf("count = %d, want 1", l.Count())
	}
}

func TestBatchNotifiesOnce(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	l := newCountingListener()
	a.Subscribe(l)
	b.Subscribe(l)

	batch := NewBatch()
	if !a.SetIn(batch, 1) || !b.SetIn(batch, 2) {
		t.Fatal("SetIn reported no change")
	}
	if l.Count() != 0 {
		t.Fatalf("listener notified before commit: %d", l.Count())
	}
	if batch.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", batch.Pending())
	}

	if n := batch.Commit(); n != 1 {
		t.Errorf("Commit() = %d, want 1", n)
	}
	if l.Count() != 1 {
		t.Errorf("count = %d, want 1", l.Count())
	}
	if batch.Commit() != 0 {
		t.Error("second Commit should deliver nothing")
	}
}

func TestRun(t *testing.T) {
	s := NewSignal(0)
	var seen int
	s.Subscribe(ListenerFunc(func() { seen = s.Get() }))

	Run(func(b *Batch) {
		s.SetIn(b, 1)
		s.SetIn(b, 2)
		if seen != 0 {
			t.Error("listener ran inside batch")
		}
	})
	if seen != 2 {
		t.Errorf("seen = %d, want 2", seen)
	}
}

func TestListenerFuncIDsAreDistinct(t *testing.T) {
	fn := func() {}
	if ListenerFunc(fn).ID() == ListenerFunc(fn).ID() {
		t.Error("ListenerFunc returned duplicate IDs")
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	s := NewSignal(0)
	l := newCountingListener()
	s.Subscribe(l)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Set(n*1000 + j)
				_ = s.Get()
			}
		}(i)
	}
	wg.Wait()

	if l.Count() == 0 {
		t.Error("expected notifications from concurrent writers")
	}
}
