package model

import "time"

// Schedule is a bookable slot: one theme at one date and time.  A
// schedule holds at most one ACTIVE reservation at any instant and
// an ordered waiting queue behind it.  Schedules are immutable once
// created; the engine only reads them.
//
// Date and Time are kept in their DB string forms ("2006-01-02" and
// "15:04") because they are opaque slot coordinates, never arithmetic
// inputs.
type Schedule struct {
	ID        uint64    // schedules.id
	ThemeID   uint64    // schedules.theme_id
	Date      string    // schedules.date ("YYYY-MM-DD")
	Time      string    // schedules.time ("HH:MM")
	CreatedAt time.Time // schedules.created_at
}
