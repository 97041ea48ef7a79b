package engine

import "sync"

// scheduleLocks hands out one exclusive critical section per schedule
// id. Every mutation that touches a schedule's occupancy (create,
// cancel+promote, enqueue, withdraw) runs inside it, so operations on
// one schedule are linearized while different schedules never block
// each other. Entries are reference counted and removed when the last
// holder releases, keeping the map bounded by current contention
// rather than by the number of schedules ever seen.
type scheduleLocks struct {
	mu   sync.Mutex
	held map[uint64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newScheduleLocks() *scheduleLocks {
	return &scheduleLocks{held: make(map[uint64]*lockEntry)}
}

// acquire blocks until the caller holds the schedule's lock and
// returns the release function. Release must be called exactly once,
// on every exit path.
func (l *scheduleLocks) acquire(scheduleID uint64) func() {
	l.mu.Lock()
	e, ok := l.held[scheduleID]
	if !ok {
		e = &lockEntry{}
		l.held[scheduleID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.held, scheduleID)
		}
		l.mu.Unlock()
	}
}
