package queue

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Queue is a bounded, in-memory priority queue. One bucket per priority
// level; Dequeue always drains the highest non-empty bucket, FIFO within a
// bucket. It is the single synchronization point between producers and the
// worker pool: Dequeue blocks on a condition variable until an item arrives
// or the queue closes, so idle workers consume no CPU.
type Queue struct {
	buckets  [notification.PriorityLevels][]*notification.Notification
	capacity int
	policy   OverflowPolicy
	blockFor time.Duration
	onEvict  func(*notification.Notification)
	closed   bool

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
}

// Option configures a Queue.
type Option func(*Queue)

// WithCapacity sets the per-bucket capacity. Values below 1 keep the default.
func WithCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// WithOverflowPolicy sets the behavior of Enqueue on a full bucket.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(q *Queue) {
		switch p {
		case PolicyReject, PolicyBlock, PolicyEvictLowest:
			q.policy = p
		}
	}
}

// WithBlockTimeout sets how long PolicyBlock waits for bucket space before
// giving up with QueueFullError.
func WithBlockTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.blockFor = d
		}
	}
}

// WithEvictHandler registers a callback invoked (outside the queue lock) for
// every notification dropped by PolicyEvictLowest. The dispatcher uses it to
// fail and persist evicted notifications instead of losing them silently.
func WithEvictHandler(fn func(*notification.Notification)) Option {
	return func(q *Queue) {
		q.onEvict = fn
	}
}

// DefaultCapacity is the per-bucket capacity when none is configured.
const DefaultCapacity = 1024

// New creates a priority queue. The default configuration holds up to
// DefaultCapacity items per priority bucket and rejects on overflow.
func New(opts ...Option) *Queue {
	q := &Queue{
		capacity: DefaultCapacity,
		policy:   PolicyReject,
		blockFor: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Enqueue admits the notification into the bucket for its priority,
// transitioning it to StatusQueued. On a full bucket the configured overflow
// policy decides: reject with QueueFullError, block until space or timeout,
// or evict the newest item of the lowest non-empty strictly-lower bucket.
func (q *Queue) Enqueue(n *notification.Notification) error {
	if n == nil {
		return ErrNilNotification
	}
	if !n.Priority.Valid() {
		return ErrInvalidPriority
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}

	p := n.Priority
	var evicted *notification.Notification
	if len(q.buckets[p]) >= q.capacity {
		var err error
		evicted, err = q.makeRoom(n)
		if err != nil {
			q.mu.Unlock()
			return err
		}
	}

	// Transition only after admission is certain, so a rejected enqueue
	// leaves the notification in its previous state.
	if err := n.Transition(notification.StatusQueued); err != nil {
		q.mu.Unlock()
		return err
	}

	q.buckets[p] = append(q.buckets[p], n)
	q.notEmpty.Signal()
	q.mu.Unlock()

	if evicted != nil && q.onEvict != nil {
		q.onEvict(evicted)
	}
	return nil
}

// makeRoom applies the overflow policy for a full bucket. Called with the
// lock held; may release and reacquire it while blocking. Returns the evicted
// notification, if any.
func (q *Queue) makeRoom(n *notification.Notification) (*notification.Notification, error) {
	p := n.Priority

	switch q.policy {
	case PolicyBlock:
		deadline := time.Now().Add(q.blockFor)
		for len(q.buckets[p]) >= q.capacity && !q.closed {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return nil, NewQueueFullError(p)
			}
			timer := time.AfterFunc(remaining, func() {
				q.mu.Lock()
				q.notFull.Broadcast()
				q.mu.Unlock()
			})
			q.notFull.Wait()
			timer.Stop()
		}
		if q.closed {
			return nil, ErrClosed
		}
		return nil, nil

	case PolicyEvictLowest:
		// Drop the newest item of the lowest non-empty bucket strictly
		// below the incoming priority; equal or higher work is never
		// sacrificed for lower-priority arrivals.
		for lower := notification.PriorityLow; lower < p; lower++ {
			bucket := q.buckets[lower]
			if len(bucket) == 0 {
				continue
			}
			victim := bucket[len(bucket)-1]
			q.buckets[lower] = bucket[:len(bucket)-1]
			return victim, nil
		}
		return nil, NewQueueFullError(p)

	default: // PolicyReject
		return nil, NewQueueFullError(p)
	}
}

// Dequeue blocks until an item is available, the context is cancelled, or the
// queue is closed and drained. It returns the oldest item of the highest
// non-empty bucket; ok is false only when no item will ever be returned.
func (q *Queue) Dequeue(ctx context.Context) (*notification.Notification, bool) {
	// Wake the condition wait when the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notEmpty.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if n := q.pop(); n != nil {
			return n, true
		}
		if q.closed || ctx.Err() != nil {
			return nil, false
		}
		q.notEmpty.Wait()
	}
}

// TryDequeue returns the next item without blocking; ok is false when all
// buckets are empty.
func (q *Queue) TryDequeue() (*notification.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n := q.pop(); n != nil {
		return n, true
	}
	return nil, false
}

// pop removes and returns the head of the highest non-empty bucket. Called
// with the lock held.
func (q *Queue) pop() *notification.Notification {
	for p := notification.PriorityCritical; p >= notification.PriorityLow; p-- {
		bucket := q.buckets[p]
		if len(bucket) == 0 {
			continue
		}
		n := bucket[0]
		q.buckets[p] = bucket[1:]
		q.notFull.Broadcast()
		return n
	}
	return nil
}

// Len returns the total number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	total := 0
	for p := range q.buckets {
		total += len(q.buckets[p])
	}
	return total
}

// LenByPriority returns the depth of one priority bucket.
func (q *Queue) LenByPriority(p notification.Priority) int {
	if !p.Valid() {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buckets[p])
}

// Close marks the queue closed and wakes all waiters. Queued items remain
// dequeueable so workers can drain; further enqueues fail with ErrClosed.
// Safe to call multiple times.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	return nil
}
