package model

import "time"

// WaitingEntry is one member's position in the FIFO queue for a
// schedule whose slot is currently occupied.  Entries are ordered by
// SeqNo, a per-schedule counter that is assigned at insertion and
// never reused or renumbered; the entry with the smallest SeqNo is
// the head and is the one promoted when the active reservation for
// the schedule is cancelled.
//
// Fields:
//  ID         – primary key identifier.
//  ScheduleID – schedule the member is queued for.
//  MemberID   – queued member; at most one entry per (schedule, member).
//  SeqNo      – monotonic per-schedule arrival sequence number.
//  Rank       – 1-based position in the queue, derived at query time
//               for "my waitings" listings; zero when not loaded.
//  CreatedAt  – creation timestamp.
type WaitingEntry struct {
	ID         uint64    // waiting_entries.id
	ScheduleID uint64    // waiting_entries.schedule_id
	MemberID   uint64    // waiting_entries.member_id
	SeqNo      uint64    // waiting_entries.seq_no
	Rank       uint64    // derived, not a column
	CreatedAt  time.Time // waiting_entries.created_at
}
