package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations. A
// reservation occupies exactly one schedule slot. The table carries a
// nullable `active` column that is 1 while status is ACTIVE and NULL
// once cancelled; the unique index on (schedule_id, active) is what
// makes CreateActive reject a second occupant atomically — NULLs do
// not collide, so any number of cancelled rows may coexist with the
// single active one. All timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need transactions
// spanning multiple repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, schedule_id, member_id, status, approved, created_at, updated_at`

func scanReservation(row *sql.Row) (model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.ScheduleID, &res.MemberID, &res.Status, &res.Approved, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// CreateActive inserts a new ACTIVE reservation for the schedule. The
// insert itself is the occupancy check: when another ACTIVE row exists
// for the schedule the unique index rejects it and ErrConflict is
// returned. On success the full row is read back so DB-assigned
// defaults are populated.
func (r *ReservationRepo) CreateActive(ctx context.Context, scheduleID, memberID uint64) (model.Reservation, error) {
	const q = `INSERT INTO reservations (schedule_id, member_id, status, active) VALUES (?, ?, 'ACTIVE', 1)`
	res, err := r.db.ExecContext(ctx, q, scheduleID, memberID)
	if err != nil {
		if isDuplicate(err) {
			return model.Reservation{}, ErrConflict
		}
		return model.Reservation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Reservation{}, err
	}
	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, sel, id))
}

// Get returns a single reservation by id, ErrNotFound when missing.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, q, id))
}

// ActiveBySchedule returns the ACTIVE reservation occupying the given
// schedule, or ErrNotFound when the slot is free.
func (r *ReservationRepo) ActiveBySchedule(ctx context.Context, scheduleID uint64) (model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE schedule_id = ? AND status = 'ACTIVE'`
	return scanReservation(r.db.QueryRowContext(ctx, q, scheduleID))
}

// Cancel transitions an ACTIVE reservation to CANCELLED, clearing the
// active marker so the slot's uniqueness key frees up. The row is kept
// for member history. Returns ErrNotFound when no ACTIVE row matched.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) error {
	const q = `UPDATE reservations SET status = 'CANCELLED', active = NULL WHERE id = ? AND status = 'ACTIVE'`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Approve sets the approved flag. The update is idempotent: approving
// an already-approved reservation matches zero rows and is still a
// success.
func (r *ReservationRepo) Approve(ctx context.Context, id uint64) error {
	const q = `UPDATE reservations SET approved = 1 WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ListBySlot returns ACTIVE reservations for all schedules of a theme
// on a date, ordered by schedule time then reservation id. The result
// is a snapshot; re-querying may observe different rows.
func (r *ReservationRepo) ListBySlot(ctx context.Context, themeID uint64, date string) ([]model.Reservation, error) {
	const q = `SELECT r.id, r.schedule_id, r.member_id, r.status, r.approved, r.created_at, r.updated_at
	           FROM reservations r
	           JOIN schedules s ON s.id = r.schedule_id
	           WHERE s.theme_id = ? AND s.date = ? AND r.status = 'ACTIVE'
	           ORDER BY s.time, r.id`
	return r.queryList(ctx, q, themeID, date)
}

// ListByMember returns every reservation the member has ever owned,
// cancelled rows included, newest first.
func (r *ReservationRepo) ListByMember(ctx context.Context, memberID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE member_id = ? ORDER BY created_at DESC, id DESC`
	return r.queryList(ctx, q, memberID)
}

func (r *ReservationRepo) queryList(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.ScheduleID, &res.MemberID, &res.Status, &res.Approved, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
