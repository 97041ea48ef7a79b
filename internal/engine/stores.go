package engine

import (
	"context"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// ReservationStore is the persistence contract the engines run
// against. Implementations must make CreateActive atomic: the insert
// itself rejects a second ACTIVE reservation for the same schedule
// with repository.ErrConflict, even without the engine's lock held.
// Missing rows are reported as repository.ErrNotFound.
type ReservationStore interface {
	CreateActive(ctx context.Context, scheduleID, memberID uint64) (model.Reservation, error)
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	ActiveBySchedule(ctx context.Context, scheduleID uint64) (model.Reservation, error)
	Cancel(ctx context.Context, id uint64) error
	Approve(ctx context.Context, id uint64) error
	ListBySlot(ctx context.Context, themeID uint64, date string) ([]model.Reservation, error)
	ListByMember(ctx context.Context, memberID uint64) ([]model.Reservation, error)
}

// WaitingStore persists the FIFO queue behind occupied schedules.
// Append must assign the next per-schedule sequence number atomically
// with the duplicate check (repository.ErrConflict when the member is
// already queued). Head returns the entry with the smallest sequence
// number or repository.ErrNotFound when the queue is empty.
type WaitingStore interface {
	Append(ctx context.Context, scheduleID, memberID uint64) (model.WaitingEntry, error)
	Get(ctx context.Context, id uint64) (model.WaitingEntry, error)
	Delete(ctx context.Context, id uint64) error
	Head(ctx context.Context, scheduleID uint64) (model.WaitingEntry, error)
	ListByMember(ctx context.Context, memberID uint64) ([]model.WaitingEntry, error)
}

// ScheduleDirectory resolves schedule ids. Schedules are owned by the
// admin surface; the engines only ever read them.
type ScheduleDirectory interface {
	GetSchedule(ctx context.Context, id uint64) (model.Schedule, error)
}
