package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRecipientID is returned by Send when no recipient is given.
	ErrMissingRecipientID = errors.New("recipient ID is required")

	// ErrInvalidPriority is returned by Send when the requested priority is out of range.
	ErrInvalidPriority = errors.New("priority is outside the valid range")

	// ErrNilProvider is returned when registering a nil provider.
	ErrNilProvider = errors.New("provider cannot be nil")

	// ErrMissingProviderID is returned when registering a provider without an ID.
	ErrMissingProviderID = errors.New("provider ID is required")

	// ErrStopping is returned by Start while a previous Stop is still draining.
	ErrStopping = errors.New("dispatcher is stopping")

	// ErrNotDelivered is the cause recorded when a provider declines a
	// message without reporting a transport error.
	ErrNotDelivered = errors.New("provider declined delivery")
)

// ProviderNotRegisteredError indicates a resolved route pointing at a
// provider ID nothing was registered under.
type ProviderNotRegisteredError struct {
	ProviderID string
}

func (e *ProviderNotRegisteredError) Error() string {
	return fmt.Sprintf("no provider registered under %q", e.ProviderID)
}

func NewProviderNotRegisteredError(id string) *ProviderNotRegisteredError {
	return &ProviderNotRegisteredError{ProviderID: id}
}

func IsProviderNotRegisteredError(err error) bool {
	var e *ProviderNotRegisteredError
	return errors.As(err, &e)
}

// ProviderSendError wraps any failure raised by a provider call, including a
// recovered panic or a send timeout.
type ProviderSendError struct {
	Cause error
}

func (e *ProviderSendError) Error() string {
	return fmt.Sprintf("provider send failed: %v", e.Cause)
}

func (e *ProviderSendError) Unwrap() error {
	return e.Cause
}

func NewProviderSendError(cause error) *ProviderSendError {
	return &ProviderSendError{Cause: cause}
}

func IsProviderSendError(err error) bool {
	var e *ProviderSendError
	return errors.As(err, &e)
}
