package engine

import (
	"sync"
	"testing"
)

func TestScheduleLocksMutualExclusion(t *testing.T) {
	l := newScheduleLocks()
	const n = 32
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.acquire(7)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	if counter != n {
		t.Errorf("counter = %d, want %d", counter, n)
	}
}

func TestScheduleLocksIndependentKeys(t *testing.T) {
	l := newScheduleLocks()
	unlock1 := l.acquire(1)
	defer unlock1()

	// Holding schedule 1 must not block schedule 2.
	done := make(chan struct{})
	go func() {
		unlock2 := l.acquire(2)
		unlock2()
		close(done)
	}()
	<-done
}

func TestScheduleLocksCleanup(t *testing.T) {
	l := newScheduleLocks()
	unlock := l.acquire(5)
	unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.held) != 0 {
		t.Errorf("held = %d entries after release, want 0", len(l.held))
	}
}
