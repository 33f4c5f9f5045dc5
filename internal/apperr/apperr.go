// Package apperr defines the service error taxonomy and its HTTP mapping.
//
// Constraint violations on insert (duplicate like, duplicate match, duplicate
// code) are never part of this taxonomy: services translate them into the
// corresponding idempotent success result before an error can escape.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidAction marks a malformed or self-referential request.
	ErrInvalidAction = errors.New("invalid action")

	// ErrNotFound marks a missing target user, match, or record.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an actor acting on a resource they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrCodeExhausted is returned when referral code generation hits the
	// collision retry bound. Safe to retry the whole request later.
	ErrCodeExhausted = errors.New("referral code generation exhausted")

	// ErrStoreUnavailable marks a transient infrastructure failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// LimitExceededError is returned when a user hits their daily swipe quota.
// RetryAfter tells the caller when the quota resets.
type LimitExceededError struct {
	Limit      int64
	RetryAfter time.Duration
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily swipe limit of %d reached", e.Limit)
}
