// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver error strings themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert or update collides with the
// unique index on users.email. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrWorkoutNotFound is returned when a workout lookup matches no row.
var ErrWorkoutNotFound = errors.New("workout not found")

// ErrStateNotFound is returned when an OAuth state value is unknown,
// already consumed, or expired.
var ErrStateNotFound = errors.New("oauth state not found")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (errno 1062). The unique indexes are the real source of truth for
// uniqueness; application-level pre-checks are only fast paths.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
