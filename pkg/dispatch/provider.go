package dispatch

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Provider delivers a notification over a concrete transport. The engine is
// polymorphic over this capability and never over transport types; the
// provider subpackages supply implementations for email, webhook, Slack and
// in-app delivery.
//
// Send reports delivered=false with a nil error when the provider declined
// the message without a transport failure; the engine treats both shapes as
// delivery failure.
type Provider interface {
	Send(ctx context.Context, n *notification.Notification) (delivered bool, err error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, n *notification.Notification) (bool, error)

func (f ProviderFunc) Send(ctx context.Context, n *notification.Notification) (bool, error) {
	return f(ctx, n)
}
