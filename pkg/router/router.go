package router

import (
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Router maps delivery channels to ordered provider lists, with an optional
// one-hop fallback channel per primary channel. Like the template registry it
// is read-mostly: routes are laid down at startup and consulted per dispatch.
type Router struct {
	routes   map[notification.Channel][]string
	fallback map[notification.Channel]notification.Channel
	mu       sync.RWMutex
}

// New creates an empty router.
func New() *Router {
	return &Router{
		routes:   make(map[notification.Channel][]string),
		fallback: make(map[notification.Channel]notification.Channel),
	}
}

// AddRoute appends a provider to the ordered list for the channel. The first
// provider added for a channel is its primary.
func (r *Router) AddRoute(channel notification.Channel, providerID string) error {
	if !channel.Valid() {
		return ErrInvalidChannel
	}
	if providerID == "" {
		return ErrMissingProviderID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[channel] = append(r.routes[channel], providerID)
	return nil
}

// SetFallback records a one-hop fallback channel consulted when the primary
// channel has no providers. A fallback target is never itself re-resolved
// through the fallback table, which bounds resolution to two lookups and
// rules out cycles by construction.
func (r *Router) SetFallback(primary, fallback notification.Channel) error {
	if !primary.Valid() || !fallback.Valid() {
		return ErrInvalidChannel
	}
	if primary == fallback {
		return ErrSelfFallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback[primary] = fallback
	return nil
}

// Providers returns the ordered provider list for a channel.
func (r *Router) Providers(channel notification.Channel) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.routes[channel]))
	copy(out, r.routes[channel])
	return out
}

// Resolve returns the provider that should deliver the notification: the
// primary provider of its channel, or the primary provider of the configured
// fallback channel when the primary channel has none. With no route on either
// hop it fails with NoRouteError for the original channel.
func (r *Router) Resolve(n *notification.Notification) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if providers := r.routes[n.Channel]; len(providers) > 0 {
		return providers[0], nil
	}

	if fb, ok := r.fallback[n.Channel]; ok {
		if providers := r.routes[fb]; len(providers) > 0 {
			return providers[0], nil
		}
	}

	return "", NewNoRouteError(n.Channel)
}
