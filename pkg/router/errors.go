package router

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

var (
	// ErrInvalidChannel is returned when routing an unknown delivery channel.
	ErrInvalidChannel = errors.New("unknown delivery channel")

	// ErrMissingProviderID is returned when adding a route with an empty provider ID.
	ErrMissingProviderID = errors.New("provider ID is required")

	// ErrSelfFallback is returned when a channel is configured as its own fallback.
	ErrSelfFallback = errors.New("channel cannot be its own fallback")
)

// NoRouteError indicates that neither the notification's channel nor its
// configured fallback has any provider.
type NoRouteError struct {
	Channel notification.Channel
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route for channel %q", e.Channel)
}

func NewNoRouteError(channel notification.Channel) *NoRouteError {
	return &NoRouteError{Channel: channel}
}

func IsNoRouteError(err error) bool {
	var e *NoRouteError
	return errors.As(err, &e)
}
