package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingProfileData is returned when an energy computation needs a profile
	// field that is not set. Use errors.As with *MissingFieldError to learn which one.
	ErrMissingProfileData = errors.New("missing profile data")
	// ErrDayClosed rejects any mutation of a closed day. Reopen the day first.
	ErrDayClosed = errors.New("day is closed")
	// ErrNotFound is returned when a referenced record does not exist for the user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRange rejects out-of-range input at the boundary instead of clamping it.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidTransition is returned when a planned event cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// MissingFieldError names the profile field a computation could not do without.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing profile data: %s is required", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingProfileData }

func missingField(field string) error { return &MissingFieldError{Field: field} }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidRange}, args...)...)
}

func closedDay(date DateOnly) error {
	return fmt.Errorf("%w: %s", ErrDayClosed, date)
}

// errorReason is the metrics label for a rejected mutation.
func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrDayClosed):
		return "closed_day"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrMissingProfileData):
		return "missing_profile"
	default:
		return "internal"
	}
}
