package engine

import (
	"errors"

	"github.com/iliyamo/escape-room-reservation/internal/repository"
)

// Engine operations report expected business failures through these
// sentinels instead of raising storage errors. Handlers translate them
// to HTTP statuses; only genuinely unexpected conditions (storage
// unavailable) pass through untyped.
var (
	// ErrUnauthenticated means no member identity was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized means the member exists but lacks the rights for
	// the operation (not the owner, not an admin).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means an id did not resolve to an entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness or state invariant would be
	// violated: the slot is already occupied, or the member is already
	// queued.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState means the operation is not legal in the slot's
	// current state, such as enqueueing on a free schedule.
	ErrInvalidState = errors.New("invalid state")
)

// mapStoreErr converts repository sentinels into engine sentinels so
// that storage-specific errors never leak past the engine boundary.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	default:
		return err
	}
}
