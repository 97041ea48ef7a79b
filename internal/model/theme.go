package model

import "time"

// Theme is an escape-room theme that schedules are created for.
// Rows live in the `themes` table and are only ever written by
// admin endpoints; the reservation engine treats themes as
// read-only lookup data.
type Theme struct {
	ID        uint64    // themes.id
	Name      string    // themes.name
	Desc      string    // themes.description
	Price     uint32    // themes.price (KRW, whole units)
	CreatedAt time.Time // themes.created_at
}
