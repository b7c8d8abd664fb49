package notification

import (
	"context"
	"time"
)

// Store handles notification persistence. The dispatch engine calls Save when
// a notification is accepted and UpdateStatus on every terminal transition;
// it never implements storage itself.
type Store interface {
	// Save persists a new notification snapshot.
	Save(ctx context.Context, n *Notification) error

	// UpdateStatus records a status change. errMsg is empty unless the
	// notification failed.
	UpdateStatus(ctx context.Context, id string, status Status, errMsg string) error

	// GetByID retrieves a single notification.
	GetByID(ctx context.Context, id string) (*Notification, error)

	// ListByRecipient returns notifications for a recipient, newest first.
	ListByRecipient(ctx context.Context, recipientID string, opts ListOptions) ([]*Notification, error)

	// MarkRead records the read timestamp on the given notifications.
	MarkRead(ctx context.Context, recipientID string, ids ...string) error
}

// ListOptions provides filtering and pagination for ListByRecipient.
type ListOptions struct {
	Status     Status     // when non-empty, only notifications in this status
	OnlyUnread bool       // when true, only notifications without a ReadAt
	Since      *time.Time // when set, only notifications created after this time
	Limit      int        // 0 means no limit
	Offset     int
}
