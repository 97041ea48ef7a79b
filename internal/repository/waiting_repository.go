package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// WaitingRepo provides data access to the waiting_entries table: the
// FIFO queue behind each occupied schedule. Ordering is by seq_no, a
// per-schedule counter kept on the schedules row. Sequence numbers are
// assigned once and never reused, so withdrawing a mid-queue entry
// does not renumber anything — later comparisons stay relative.
type WaitingRepo struct {
	db *sql.DB
}

// NewWaitingRepo returns a new WaitingRepo bound to the provided database.
func NewWaitingRepo(db *sql.DB) *WaitingRepo { return &WaitingRepo{db: db} }

const waitingCols = `id, schedule_id, member_id, seq_no, created_at`

func scanWaiting(row *sql.Row) (model.WaitingEntry, error) {
	var w model.WaitingEntry
	err := row.Scan(&w.ID, &w.ScheduleID, &w.MemberID, &w.SeqNo, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WaitingEntry{}, ErrNotFound
	}
	return w, err
}

// Append claims the next arrival sequence number for the schedule and
// inserts the entry, in one transaction. The counter lives on the
// schedules row and only ever increments, so numbers stay monotonic
// even after withdrawals. LAST_INSERT_ID wraps the incremented value
// so it can be read back on the same connection without a race.
// Returns ErrNotFound when the schedule does not exist and ErrConflict
// when the member is already queued for it.
func (r *WaitingRepo) Append(ctx context.Context, scheduleID, memberID uint64) (model.WaitingEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.WaitingEntry{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE schedules SET waiting_seq = LAST_INSERT_ID(waiting_seq + 1) WHERE id = ?`, scheduleID)
	if err != nil {
		return model.WaitingEntry{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.WaitingEntry{}, err
	}
	if n == 0 {
		return model.WaitingEntry{}, ErrNotFound
	}
	var seq uint64
	if err := tx.QueryRowContext(ctx, `SELECT LAST_INSERT_ID()`).Scan(&seq); err != nil {
		return model.WaitingEntry{}, err
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO waiting_entries (schedule_id, member_id, seq_no) VALUES (?, ?, ?)`,
		scheduleID, memberID, seq)
	if err != nil {
		if isDuplicate(err) {
			return model.WaitingEntry{}, ErrConflict
		}
		return model.WaitingEntry{}, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return model.WaitingEntry{}, err
	}

	const sel = `SELECT ` + waitingCols + ` FROM waiting_entries WHERE id = ?`
	entry, err := scanWaiting(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return model.WaitingEntry{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.WaitingEntry{}, err
	}
	committed = true
	return entry, nil
}

// Get returns a single waiting entry by id, ErrNotFound when missing.
func (r *WaitingRepo) Get(ctx context.Context, id uint64) (model.WaitingEntry, error) {
	const q = `SELECT ` + waitingCols + ` FROM waiting_entries WHERE id = ?`
	return scanWaiting(r.db.QueryRowContext(ctx, q, id))
}

// Delete removes a waiting entry. Returns ErrNotFound when no row
// matched.
func (r *WaitingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM waiting_entries WHERE id = ?`, id)
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

// Head returns the entry with the smallest sequence number for the
// schedule, ErrNotFound when the queue is empty.
func (r *WaitingRepo) Head(ctx context.Context, scheduleID uint64) (model.WaitingEntry, error) {
	const q = `SELECT ` + waitingCols + ` FROM waiting_entries WHERE schedule_id = ? ORDER BY seq_no LIMIT 1`
	return scanWaiting(r.db.QueryRowContext(ctx, q, scheduleID))
}

// ListByMember returns the member's waiting entries, newest first, with
// Rank populated as the 1-based position within each queue.
func (r *WaitingRepo) ListByMember(ctx context.Context, memberID uint64) ([]model.WaitingEntry, error) {
	const q = `SELECT w.id, w.schedule_id, w.member_id, w.seq_no, w.created_at,
	                  (SELECT COUNT(*) FROM waiting_entries w2
	                   WHERE w2.schedule_id = w.schedule_id AND w2.seq_no <= w.seq_no) AS rank_no
	           FROM waiting_entries w
	           WHERE w.member_id = ?
	           ORDER BY w.created_at DESC, w.id DESC`
	rows, err := r.db.QueryContext(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.WaitingEntry, 0)
	for rows.Next() {
		var w model.WaitingEntry
		if err := rows.Scan(&w.ID, &w.ScheduleID, &w.MemberID, &w.SeqNo, &w.CreatedAt, &w.Rank); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
