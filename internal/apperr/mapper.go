package apperr

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Status maps service errors onto HTTP status codes.
// Keeps handlers clean by centralizing error mapping.
func Status(err error) int {
	var limitErr *LimitExceededError

	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrInvalidAction):
		return http.StatusBadRequest

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden

	case errors.As(err, &limitErr):
		return http.StatusTooManyRequests

	case errors.Is(err, ErrCodeExhausted):
		return http.StatusInternalServerError

	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// Message returns a caller-safe message for err. Known taxonomy errors keep
// their text; anything else collapses to a generic message so internal store
// errors never leak to clients.
func Message(err error) string {
	var limitErr *LimitExceededError

	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrCodeExhausted),
		errors.Is(err, ErrStoreUnavailable):
		return err.Error()

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound.Error()

	case errors.As(err, &limitErr):
		return limitErr.Error()

	default:
		return "internal error"
	}
}
