package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// ThemeRepo manages persistence for escape-room themes. Themes are
// created and deleted by admins only; everyone may list them.
type ThemeRepo struct {
	db *sql.DB
}

// NewThemeRepo constructs a ThemeRepo with the given DB handle.
func NewThemeRepo(db *sql.DB) *ThemeRepo { return &ThemeRepo{db: db} }

// Create inserts a new theme and assigns the generated ID back to the
// struct.
func (r *ThemeRepo) Create(ctx context.Context, t *model.Theme) error {
	const q = `INSERT INTO themes (name, description, price) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Desc, t.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a single theme. Returns ErrNotFound when the id does
// not resolve.
func (r *ThemeRepo) GetByID(ctx context.Context, id uint64) (model.Theme, error) {
	const q = `SELECT id, name, description, price, created_at FROM themes WHERE id = ?`
	var t model.Theme
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Desc, &t.Price, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Theme{}, ErrNotFound
	}
	return t, err
}

// List returns all themes ordered by id.
func (r *ThemeRepo) List(ctx context.Context) ([]model.Theme, error) {
	const q = `SELECT id, name, description, price, created_at FROM themes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	themes := make([]model.Theme, 0)
	for rows.Next() {
		var t model.Theme
		if err := rows.Scan(&t.ID, &t.Name, &t.Desc, &t.Price, &t.CreatedAt); err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

// Delete removes a theme. Returns ErrNotFound when no row matched and
// ErrConflict when schedules still reference the theme.
func (r *ThemeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM themes WHERE id = ?`, id)
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
