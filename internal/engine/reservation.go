// Package engine implements the reservation and waiting-list state
// machine: at most one ACTIVE reservation per schedule, a FIFO waiting
// queue behind each occupied slot, and synchronous promotion of the
// queue head when the active reservation is cancelled. All mutations
// for one schedule run inside that schedule's critical section; the
// database uniqueness constraints remain as a backstop underneath.
package engine

import (
	"context"
	"errors"

	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
)

// ReservationEngine owns the lifecycle of reservations. It is safe for
// concurrent use.
type ReservationEngine struct {
	reservations ReservationStore
	schedules    ScheduleDirectory
	waiting      *WaitingEngine
	guard        Guard
	locks        *scheduleLocks
}

// New wires a ReservationEngine and a WaitingEngine over the same
// stores. The two share one lock table so that cancellation and
// promotion happen inside a single critical section per schedule.
func New(res ReservationStore, wait WaitingStore, sched ScheduleDirectory) (*ReservationEngine, *WaitingEngine) {
	locks := newScheduleLocks()
	we := &WaitingEngine{
		reservations: res,
		entries:      wait,
		schedules:    sched,
		locks:        locks,
	}
	re := &ReservationEngine{
		reservations: res,
		schedules:    sched,
		waiting:      we,
		locks:        locks,
	}
	return re, we
}

// Create reserves the schedule for the member. The store insert is the
// occupancy check: two concurrent creates for one empty slot yield
// exactly one success and one ErrConflict. Ownership does not exempt a
// second attempt — a member re-reserving their own slot gets
// ErrConflict too.
func (e *ReservationEngine) Create(ctx context.Context, m model.Member, scheduleID uint64) (model.Reservation, error) {
	if m.ID == 0 {
		return model.Reservation{}, ErrUnauthenticated
	}
	if _, err := e.schedules.GetSchedule(ctx, scheduleID); err != nil {
		return model.Reservation{}, mapStoreErr(err)
	}
	unlock := e.locks.acquire(scheduleID)
	defer unlock()
	res, err := e.reservations.CreateActive(ctx, scheduleID, m.ID)
	if err != nil {
		return model.Reservation{}, mapStoreErr(err)
	}
	return res, nil
}

// Approve marks an ACTIVE reservation as confirmed by an admin. The
// flag is audit state on top of ACTIVE/CANCELLED and does not change
// occupancy. Approving twice is a no-op success.
func (e *ReservationEngine) Approve(ctx context.Context, actor model.Member, id uint64) (model.Reservation, error) {
	if actor.ID == 0 {
		return model.Reservation{}, ErrUnauthenticated
	}
	if !e.guard.IsAdmin(actor) {
		return model.Reservation{}, ErrUnauthorized
	}
	res, err := e.reservations.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, mapStoreErr(err)
	}
	if res.Status != model.ReservationActive {
		return model.Reservation{}, ErrNotFound
	}
	if res.Approved {
		return res, nil
	}
	unlock := e.locks.acquire(res.ScheduleID)
	defer unlock()
	if err := e.reservations.Approve(ctx, res.ID); err != nil {
		return model.Reservation{}, err
	}
	res.Approved = true
	return res, nil
}

// Cancel transitions the reservation to CANCELLED and, inside the same
// critical section, promotes the waiting-queue head into the vacated
// slot. The returned reservation is the successor created for the
// promoted member, or nil when the queue was empty. Only the owner or
// an admin may cancel. There is no window where the slot is free while
// an entry is still queued: a concurrent Create blocks on the schedule
// lock until promotion has finished.
func (e *ReservationEngine) Cancel(ctx context.Context, actor model.Member, id uint64) (*model.Reservation, error) {
	if actor.ID == 0 {
		return nil, ErrUnauthenticated
	}
	res, err := e.reservations.Get(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !e.guard.CanModify(actor, res.MemberID) {
		return nil, ErrUnauthorized
	}
	unlock := e.locks.acquire(res.ScheduleID)
	defer unlock()
	if err := e.reservations.Cancel(ctx, res.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Already cancelled, possibly by a racing request that beat
			// us to the lock.
			return nil, ErrInvalidState
		}
		return nil, err
	}
	head, ok, err := e.waiting.promote(ctx, res.ScheduleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	successor, err := e.reservations.CreateActive(ctx, res.ScheduleID, head.MemberID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return &successor, nil
}

// ListBySlot returns the ACTIVE reservations for a theme on a date,
// ordered by schedule time then id. Availability is public, so no
// authentication is required; callers must not expose owner identity
// beyond "taken".
func (e *ReservationEngine) ListBySlot(ctx context.Context, themeID uint64, date string) ([]model.Reservation, error) {
	return e.reservations.ListBySlot(ctx, themeID, date)
}

// ListMine returns every reservation the member has ever owned, newest
// first. Cancelled rows are retained as history and included.
func (e *ReservationEngine) ListMine(ctx context.Context, m model.Member) ([]model.Reservation, error) {
	if m.ID == 0 {
		return nil, ErrUnauthenticated
	}
	return e.reservations.ListByMember(ctx, m.ID)
}
