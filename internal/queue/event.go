// Package queue defines message payloads exchanged over the message broker.
package queue

// WaitingPromotedEvent is published when a cancellation promotes the
// head of a schedule's waiting queue into an active reservation. It
// carries enough information for downstream consumers to log or notify
// the promoted member without querying the primary database.
type WaitingPromotedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ScheduleID    uint64 `json:"schedule_id"`
	MemberID      uint64 `json:"member_id"`
	PromotedAt    string `json:"promoted_at"`
}
