package inapp

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// ErrClosed is returned by Send and Subscribe after Close.
var ErrClosed = errors.New("in-app provider is closed")

// DefaultBufferSize is the per-subscription channel buffer when none is
// configured.
const DefaultBufferSize = 16

// Provider delivers notifications to live in-app subscribers, one
// subscription set per recipient. Delivery to subscribers is non-blocking: a
// slow consumer's buffer fills and further messages are dropped for it rather
// than stalling the dispatch worker.
//
// A recipient without subscribers still counts as delivered; the persistent
// store is the notification feed of record and a live push is best effort on
// top of it.
type Provider struct {
	subscribers map[string]map[chan *notification.Notification]struct{}
	bufferSize  int
	closed      bool
	mu          sync.RWMutex
}

// Option configures a Provider.
type Option func(*Provider)

// WithBufferSize sets the per-subscription channel buffer. A minimum of 1 is
// enforced so sends never block.
func WithBufferSize(n int) Option {
	return func(p *Provider) {
		p.bufferSize = max(n, 1)
	}
}

// New creates an in-app provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		subscribers: make(map[string]map[chan *notification.Notification]struct{}),
		bufferSize:  DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe opens a live feed for one recipient. The returned cancel function
// closes the channel and releases the subscription; it is safe to call more
// than once.
func (p *Provider) Subscribe(recipientID string) (<-chan *notification.Notification, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, nil, ErrClosed
	}

	ch := make(chan *notification.Notification, p.bufferSize)
	subs, ok := p.subscribers[recipientID]
	if !ok {
		subs = make(map[chan *notification.Notification]struct{})
		p.subscribers[recipientID] = subs
	}
	subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() { p.unsubscribe(recipientID, ch) })
	}
	return ch, cancel, nil
}

func (p *Provider) unsubscribe(recipientID string, ch chan *notification.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs, ok := p.subscribers[recipientID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	if len(subs) == 0 {
		delete(p.subscribers, recipientID)
	}
	close(ch)
}

// SubscriberCount returns the number of open subscriptions for a recipient.
func (p *Provider) SubscriberCount(recipientID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers[recipientID])
}

// Send fans the notification out to the recipient's subscribers. Each
// subscriber receives its own clone so consumers can't race the dispatcher
// on the live instance.
func (p *Provider) Send(_ context.Context, n *notification.Notification) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false, ErrClosed
	}

	for ch := range p.subscribers[n.RecipientID] {
		select {
		case ch <- n.Clone():
		default:
			// Buffer full: drop for this subscriber, keep the worker moving.
		}
	}
	return true, nil
}

// Close closes every subscription channel. Safe to call multiple times.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, subs := range p.subscribers {
		for ch := range subs {
			close(ch)
		}
	}
	clear(p.subscribers)
	return nil
}
