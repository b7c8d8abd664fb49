package notification

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no notification matches the ID.
	ErrNotFound = errors.New("notification not found")

	// ErrMissingID is returned by stores when saving a notification without an ID.
	ErrMissingID = errors.New("notification ID is required")

	// ErrMissingRecipient is returned by stores when saving a notification without a recipient.
	ErrMissingRecipient = errors.New("recipient ID is required")
)

// InvalidTransitionError indicates an attempted lifecycle transition that the
// state machine does not allow.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func IsInvalidTransitionError(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
