package engine

import (
	"context"
	"errors"

	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
)

// WaitingEngine owns the FIFO queue behind occupied schedules. It is
// safe for concurrent use and shares its lock table with the
// ReservationEngine it was constructed with.
type WaitingEngine struct {
	reservations ReservationStore
	entries      WaitingStore
	schedules    ScheduleDirectory
	guard        Guard
	locks        *scheduleLocks
}

// Enqueue puts the member on the waiting list for an occupied
// schedule. Enqueueing on a free slot is a usage error (ErrInvalidState
// — the caller should have reserved directly), and a member who
// already holds the ACTIVE reservation or a queue position for the
// schedule gets ErrConflict.
func (e *WaitingEngine) Enqueue(ctx context.Context, m model.Member, scheduleID uint64) (model.WaitingEntry, error) {
	if m.ID == 0 {
		return model.WaitingEntry{}, ErrUnauthenticated
	}
	if _, err := e.schedules.GetSchedule(ctx, scheduleID); err != nil {
		return model.WaitingEntry{}, mapStoreErr(err)
	}
	unlock := e.locks.acquire(scheduleID)
	defer unlock()
	active, err := e.reservations.ActiveBySchedule(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.WaitingEntry{}, ErrInvalidState
		}
		return model.WaitingEntry{}, err
	}
	if active.MemberID == m.ID {
		return model.WaitingEntry{}, ErrConflict
	}
	entry, err := e.entries.Append(ctx, scheduleID, m.ID)
	if err != nil {
		return model.WaitingEntry{}, mapStoreErr(err)
	}
	return entry, nil
}

// Withdraw removes the member's own waiting entry; admins may remove
// anyone's. Remaining entries keep their sequence numbers — ordering
// is relative, so no renumbering is needed or wanted.
func (e *WaitingEngine) Withdraw(ctx context.Context, actor model.Member, entryID uint64) error {
	if actor.ID == 0 {
		return ErrUnauthenticated
	}
	entry, err := e.entries.Get(ctx, entryID)
	if err != nil {
		return mapStoreErr(err)
	}
	if !e.guard.CanModify(actor, entry.MemberID) {
		return ErrUnauthorized
	}
	unlock := e.locks.acquire(entry.ScheduleID)
	defer unlock()
	if err := e.entries.Delete(ctx, entry.ID); err != nil {
		// The entry can vanish between Get and the lock when a racing
		// cancellation promotes it.
		return mapStoreErr(err)
	}
	return nil
}

// ListMine returns the member's waiting entries with their current
// queue positions, newest first.
func (e *WaitingEngine) ListMine(ctx context.Context, m model.Member) ([]model.WaitingEntry, error) {
	if m.ID == 0 {
		return nil, ErrUnauthenticated
	}
	return e.entries.ListByMember(ctx, m.ID)
}

// promote pops the queue head for the schedule and reports it so the
// caller can create the successor reservation. Called only from
// ReservationEngine.Cancel while the schedule's lock is already held;
// it must not acquire the lock itself. Returns ok=false when the queue
// is empty.
func (e *WaitingEngine) promote(ctx context.Context, scheduleID uint64) (model.WaitingEntry, bool, error) {
	head, err := e.entries.Head(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.WaitingEntry{}, false, nil
		}
		return model.WaitingEntry{}, false, err
	}
	if err := e.entries.Delete(ctx, head.ID); err != nil {
		return model.WaitingEntry{}, false, err
	}
	return head, true, nil
}
