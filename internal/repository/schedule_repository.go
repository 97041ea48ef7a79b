package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// ScheduleRepo manages persistence for schedules. A schedule is one
// theme at one date and time; the (theme_id, date, time) triple is
// unique. The waiting_seq column on each row feeds the per-schedule
// arrival sequence counter used by WaitingRepo.Append.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

// Create inserts a new schedule and assigns the generated ID back to
// the struct. Returns ErrConflict when a schedule already exists for
// the same theme, date and time.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.Schedule) error {
	const q = `INSERT INTO schedules (theme_id, date, time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.ThemeID, s.Date, s.Time)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetSchedule fetches a single schedule by id. Returns ErrNotFound
// when the id does not resolve. The method name satisfies the
// engine.ScheduleDirectory contract.
func (r *ScheduleRepo) GetSchedule(ctx context.Context, id uint64) (model.Schedule, error) {
	const q = `SELECT id, theme_id, DATE_FORMAT(date, '%Y-%m-%d'), TIME_FORMAT(time, '%H:%i'), created_at
	           FROM schedules WHERE id = ?`
	var s model.Schedule
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.ThemeID, &s.Date, &s.Time, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Schedule{}, ErrNotFound
	}
	return s, err
}

// ListByTheme returns schedules for a theme, optionally filtered by
// date ("YYYY-MM-DD"; empty means all dates), ordered by date then
// time.
func (r *ScheduleRepo) ListByTheme(ctx context.Context, themeID uint64, date string) ([]model.Schedule, error) {
	q := `SELECT id, theme_id, DATE_FORMAT(date, '%Y-%m-%d'), TIME_FORMAT(time, '%H:%i'), created_at
	      FROM schedules WHERE theme_id = ?`
	args := []interface{}{themeID}
	if date != "" {
		q += ` AND date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY date, time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	schedules := make([]model.Schedule, 0)
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.ID, &s.ThemeID, &s.Date, &s.Time, &s.CreatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Delete removes a schedule. Returns ErrNotFound when no row matched
// and ErrConflict when reservations or waiting entries still reference
// the schedule.
func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		if isRestricted(err) {
			return ErrConflict
		}
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
