package queue

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

var (
	// ErrClosed is returned when enqueueing into a closed queue.
	ErrClosed = errors.New("queue is closed")

	// ErrNilNotification is returned when enqueueing a nil notification.
	ErrNilNotification = errors.New("notification cannot be nil")

	// ErrInvalidPriority is returned when a notification's priority is outside the known range.
	ErrInvalidPriority = errors.New("priority is outside the valid range")
)

// QueueFullError indicates a full priority bucket under a policy that cannot
// admit the item. Producers observe it synchronously and decide whether to
// retry, drop, or escalate; the queue never drops work silently.
type QueueFullError struct {
	Priority notification.Priority
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("queue bucket for priority %q is full", e.Priority)
}

func NewQueueFullError(p notification.Priority) *QueueFullError {
	return &QueueFullError{Priority: p}
}

func IsQueueFullError(err error) bool {
	var e *QueueFullError
	return errors.As(err, &e)
}
