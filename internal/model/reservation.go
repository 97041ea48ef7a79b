package model

import "time"

// Reservation status values stored in reservations.status.
const (
	ReservationActive    = "ACTIVE"
	ReservationCancelled = "CANCELLED"
)

// Reservation is the single active occupant of a schedule slot, or a
// retained historical row once cancelled.  For any schedule at most
// one row has status ACTIVE; the database enforces this with a
// uniqueness constraint rather than trusting callers to pre-check.
//
// Fields:
//  ID         – primary key identifier, assigned on persistence.
//  ScheduleID – slot this reservation occupies.
//  MemberID   – owning member; only the owner or an admin may cancel.
//  Status     – ACTIVE or CANCELLED.  Cancelled rows are never purged
//               so that member history remains queryable.
//  Approved   – admin confirmation flag, orthogonal to Status.  It is
//               audit state only and does not affect occupancy.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
	ID         uint64    // reservations.id
	ScheduleID uint64    // reservations.schedule_id
	MemberID   uint64    // reservations.member_id
	Status     string    // reservations.status
	Approved   bool      // reservations.approved
	CreatedAt  time.Time // reservations.created_at
	UpdatedAt  time.Time // reservations.updated_at
}
