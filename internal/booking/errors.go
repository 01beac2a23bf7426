package booking

import (
	"errors"
	"fmt"
)

// ErrConflict reports that a commit lost the capacity race after passing the
// optimistic availability check. Callers may retry or surface it.
var ErrConflict = errors.New("reservation conflicts with a concurrent booking")

// ValidationError is any rejection from the admission controller's ordered
// checks. Reason is safe to return to callers verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CapacityError reports that the availability evaluator found no free slot
// for the requested window.
type CapacityError struct {
	Availability Availability
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("court is fully booked for the requested window (%d of %d slots in use)",
		e.Availability.ActiveOverlapCount, e.Availability.CapacityTotal)
}

// NotFoundError reports a missing referenced record.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
