// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reservation engine to distinguish between different failure scenarios
// without inspecting driver-specific errors. For example, ErrConflict
// signals that an insert violated a uniqueness constraint (a second
// ACTIVE reservation for a schedule, or a duplicate waiting entry),
// while ErrNotFound indicates that a row does not exist.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// should translate this into a client error rather than a 500.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or delete cannot be performed
// because of conflicting state, such as a second active reservation for
// the same schedule or deleting a theme that still has schedules.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by MemberRepo.Create when the email is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
// The driver does not export a sentinel, so the error text is matched.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isRestricted reports whether err is a MySQL foreign-key restrict
// error (1451), raised when deleting a row that dependent rows still
// reference.
func isRestricted(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}
