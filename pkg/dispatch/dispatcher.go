package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/prioritizer"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/router"
	"github.com/dmitrymomot/notifykit/pkg/template"
)

// State is the dispatcher lifecycle state.
type State string

const (
	StateStopped  State = "stopped"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// Dispatcher is the engine facade: it builds notifications from templates,
// escalates priority, routes to a provider and runs the worker pool that
// drains the priority queue. A stopped dispatcher still accepts Send calls;
// queued items wait for the next Start.
type Dispatcher struct {
	cfg       Config
	builder   *Builder
	templates *template.Registry
	routes    *router.Router
	rules     *prioritizer.Prioritizer
	queue     *queue.Queue
	store     notification.Store
	backoff   BackoffStrategy
	logger    *slog.Logger
	metrics   *Metrics

	providers  map[string]Provider
	providerMu sync.RWMutex

	timers  map[string]*time.Timer
	timerMu sync.Mutex

	state  State
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStore sets the persistence layer. Without a store the dispatcher is
// purely in-memory: lifecycle changes are not recorded anywhere.
func WithStore(s notification.Store) Option {
	return func(d *Dispatcher) { d.store = s }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithBackoff overrides the retry backoff strategy.
func WithBackoff(b BackoffStrategy) Option {
	return func(d *Dispatcher) {
		if b != nil {
			d.backoff = b
		}
	}
}

// New creates a stopped dispatcher. Register templates, routes, rules and
// providers through the accessors, then call Start.
func New(cfg Config, opts ...Option) *Dispatcher {
	cfg = cfg.normalize()

	d := &Dispatcher{
		cfg:       cfg,
		templates: template.NewRegistry(),
		routes:    router.New(),
		backoff:   ExponentialBackoff{Base: cfg.RetryBase, Jitter: 0.1},
		logger:    slog.Default(),
		providers: make(map[string]Provider),
		timers:    make(map[string]*time.Timer),
		state:     StateStopped,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.builder = NewBuilder(d.templates)
	d.rules = prioritizer.New(prioritizer.WithLogger(d.logger))
	d.queue = queue.New(
		queue.WithCapacity(cfg.BucketCapacity),
		queue.WithOverflowPolicy(cfg.OverflowPolicy),
		queue.WithBlockTimeout(cfg.BlockTimeout),
		queue.WithEvictHandler(d.onEvict),
	)
	return d
}

// Templates returns the template registry used by Send.
func (d *Dispatcher) Templates() *template.Registry { return d.templates }

// Routes returns the channel router.
func (d *Dispatcher) Routes() *router.Router { return d.routes }

// Rules returns the priority escalation chain.
func (d *Dispatcher) Rules() *prioritizer.Prioritizer { return d.rules }

// RegisterProvider makes a provider addressable by routes. Registering the
// same ID again replaces the previous provider.
func (d *Dispatcher) RegisterProvider(providerID string, p Provider) error {
	if providerID == "" {
		return ErrMissingProviderID
	}
	if p == nil {
		return ErrNilProvider
	}

	d.providerMu.Lock()
	defer d.providerMu.Unlock()
	d.providers[providerID] = p
	return nil
}

func (d *Dispatcher) provider(providerID string) (Provider, bool) {
	d.providerMu.RLock()
	defer d.providerMu.RUnlock()
	p, ok := d.providers[providerID]
	return p, ok
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// QueueLen returns the total number of queued notifications.
func (d *Dispatcher) QueueLen() int { return d.queue.Len() }

// QueueLenByPriority returns the depth of one priority bucket.
func (d *Dispatcher) QueueLenByPriority(p notification.Priority) int {
	return d.queue.LenByPriority(p)
}

// Send builds, prioritizes and enqueues one notification. It returns the
// queued notification, or the pending notification when ScheduledFor lies in
// the future, or the first error encountered with no notification at all.
// Send never blocks on delivery; workers pick the item up asynchronously.
func (d *Dispatcher) Send(ctx context.Context, params SendParams) (*notification.Notification, error) {
	n, err := d.builder.Build(params)
	if err != nil {
		return nil, err
	}
	n.Priority = d.rules.Compute(n)

	if n.ScheduledFor != nil {
		if delay := time.Until(*n.ScheduledFor); delay > 0 {
			d.persistSave(ctx, n)
			d.scheduleEnqueue(n, delay)
			d.logger.InfoContext(ctx, "notification scheduled",
				slog.String("notification_id", n.ID),
				slog.Time("scheduled_for", *n.ScheduledFor))
			return n, nil
		}
	}

	if err := d.admit(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// admit puts a built notification on the queue and records it.
func (d *Dispatcher) admit(ctx context.Context, n *notification.Notification) error {
	if err := d.queue.Enqueue(n); err != nil {
		return err
	}
	d.persistSave(ctx, n)
	d.metrics.observeEnqueued(n.Priority)
	d.metrics.setQueueDepth(n.Priority, d.queue.LenByPriority(n.Priority))
	return nil
}

// scheduleEnqueue arms a timer that admits the notification when its
// ScheduledFor time arrives. Timers survive Stop: a deferred notification
// lands on the queue regardless and waits for the next Start.
func (d *Dispatcher) scheduleEnqueue(n *notification.Notification, delay time.Duration) {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()

	d.timers[n.ID] = time.AfterFunc(delay, func() {
		d.timerMu.Lock()
		delete(d.timers, n.ID)
		d.timerMu.Unlock()

		if err := d.admit(context.Background(), n); err != nil {
			d.logger.Error("scheduled notification could not be enqueued",
				slog.String("notification_id", n.ID),
				slog.String("error", err.Error()))
			d.persistStatus(n.ID, notification.StatusFailed, err.Error())
		}
	})
}

// CancelScheduled stops the deferred enqueue of a scheduled notification.
// It reports whether a timer was still pending.
func (d *Dispatcher) CancelScheduled(notificationID string) bool {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()

	t, ok := d.timers[notificationID]
	if !ok {
		return false
	}
	delete(d.timers, notificationID)
	return t.Stop()
}

// Start launches the worker pool. Calling Start on a running dispatcher is a
// no-op; calling it while a previous Stop is draining returns ErrStopping.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	switch d.state {
	case StateRunning:
		d.mu.Unlock()
		return nil
	case StateStopping:
		d.mu.Unlock()
		return ErrStopping
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.state = StateRunning
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx, i)
	}
	d.mu.Unlock()

	d.logger.InfoContext(ctx, "dispatcher started", slog.Int("workers", d.cfg.Workers))
	return nil
}

// Stop drains the queue and waits for every worker to finish its current
// send. The queue itself stays open, so Send keeps accepting work for the
// next Start. Calling Stop on a stopped dispatcher is a no-op.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if d.state != StateRunning {
		d.mu.Unlock()
		return nil
	}
	d.state = StateStopping
	cancel := d.cancel
	d.mu.Unlock()

	cancel()
	d.wg.Wait()

	d.mu.Lock()
	d.state = StateStopped
	d.mu.Unlock()

	d.logger.Info("dispatcher stopped")
	return nil
}

// worker drains the queue until it is empty and the run context is done.
// Cancellation is checked by Dequeue only between items, so an in-flight
// send always completes.
func (d *Dispatcher) worker(ctx context.Context, workerID int) {
	defer d.wg.Done()

	for {
		n, ok := d.queue.Dequeue(ctx)
		if !ok {
			return
		}
		d.process(workerID, n)
	}
}

// process runs the delivery pipeline for one dequeued notification. Every
// failure is contained here: the worker loop never sees an error or a panic
// from a provider.
func (d *Dispatcher) process(workerID int, n *notification.Notification) {
	d.metrics.setQueueDepth(n.Priority, d.queue.LenByPriority(n.Priority))

	if err := n.Transition(notification.StatusSending); err != nil {
		d.logger.Error("dequeued notification in unexpected state",
			slog.String("notification_id", n.ID),
			slog.String("status", string(n.CurrentStatus())),
			slog.String("error", err.Error()))
		return
	}
	d.persistStatus(n.ID, notification.StatusSending, "")

	providerID, err := d.routes.Resolve(n)
	if err != nil {
		d.fail(n, err)
		return
	}
	p, ok := d.provider(providerID)
	if !ok {
		d.fail(n, NewProviderNotRegisteredError(providerID))
		return
	}

	start := time.Now()
	err = d.deliver(p, n)
	d.metrics.observeSendDuration(n.Channel, time.Since(start))

	if err != nil {
		d.fail(n, err)
		d.maybeRetry(n)
		return
	}

	if err := n.Transition(notification.StatusDelivered); err != nil {
		d.logger.Error("delivered notification rejected the transition",
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()))
		return
	}
	d.persistStatus(n.ID, notification.StatusDelivered, "")
	d.metrics.observeDelivered(n.Channel)
	d.logger.Info("notification delivered",
		slog.String("notification_id", n.ID),
		slog.String("channel", string(n.Channel)),
		slog.Int("worker_id", workerID),
		slog.Int("attempt", n.Attempt))
}

// deliver calls the provider with the send timeout and converts every failure
// shape, panics included, into ProviderSendError.
func (d *Dispatcher) deliver(p Provider, n *notification.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewProviderSendError(fmt.Errorf("provider panic: %v", r))
		}
	}()

	// Deliberately not derived from the run context: Stop must not abort a
	// send that is already in flight.
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()

	delivered, sendErr := p.Send(ctx, n)
	if sendErr != nil {
		return NewProviderSendError(sendErr)
	}
	if !delivered {
		return NewProviderSendError(ErrNotDelivered)
	}
	return nil
}

// fail moves the notification to its failed terminal state and records it.
func (d *Dispatcher) fail(n *notification.Notification, cause error) {
	if err := n.Fail(cause); err != nil {
		d.logger.Error("failed notification rejected the transition",
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()))
		return
	}
	d.persistStatus(n.ID, notification.StatusFailed, cause.Error())
	d.metrics.observeFailed(n.Channel)
	d.logger.Warn("notification failed",
		slog.String("notification_id", n.ID),
		slog.String("channel", string(n.Channel)),
		slog.Int("attempt", n.Attempt),
		slog.String("error", cause.Error()))
}

// maybeRetry schedules a fresh notification for a failed one until the
// attempt budget runs out. The failed instance stays terminal; the retry is a
// new instance with its own ID and a backoff-delayed ScheduledFor.
func (d *Dispatcher) maybeRetry(n *notification.Notification) {
	if n.Attempt >= d.cfg.MaxAttempts {
		d.logger.Warn("notification exhausted its attempts",
			slog.String("notification_id", n.ID),
			slog.Int("attempts", n.Attempt))
		return
	}

	delay := d.backoff.NextInterval(n.Attempt)
	at := time.Now().Add(delay)

	retry := n.Clone()
	retry.ID = uuid.NewString()
	retry.Status = notification.StatusPending
	retry.Attempt = n.Attempt + 1
	retry.Error = ""
	retry.SentAt = nil
	retry.ScheduledFor = &at

	d.persistSave(context.Background(), retry)
	d.scheduleEnqueue(retry, delay)
	d.metrics.observeRetry()
	d.logger.Info("retry scheduled",
		slog.String("notification_id", retry.ID),
		slog.String("failed_id", n.ID),
		slog.Int("attempt", retry.Attempt),
		slog.Duration("delay", delay))
}

// onEvict records a notification dropped by the evict_lowest overflow policy.
// The in-memory instance stays queued (there is no queued-to-failed edge in
// the lifecycle table); the failure is recorded at the persistence layer so
// the drop is visible to recipients and operators.
func (d *Dispatcher) onEvict(n *notification.Notification) {
	d.metrics.observeEvicted(n.Priority)
	d.logger.Warn("notification evicted under queue pressure",
		slog.String("notification_id", n.ID),
		slog.String("priority", n.Priority.String()))
	d.persistStatus(n.ID, notification.StatusFailed, "evicted under queue pressure")
}

func (d *Dispatcher) persistSave(ctx context.Context, n *notification.Notification) {
	if d.store == nil {
		return
	}
	if err := d.store.Save(ctx, n); err != nil {
		d.logger.Error("store save failed",
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()))
	}
}

func (d *Dispatcher) persistStatus(id string, status notification.Status, errMsg string) {
	if d.store == nil {
		return
	}
	if err := d.store.UpdateStatus(context.Background(), id, status, errMsg); err != nil {
		d.logger.Error("store status update failed",
			slog.String("notification_id", id),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
	}
}
