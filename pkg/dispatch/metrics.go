package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Metrics exposes dispatch instrumentation on a Prometheus registerer. All
// methods are nil-safe so an unconfigured dispatcher skips instrumentation
// without guards at every call site.
type Metrics struct {
	enqueued     *prometheus.CounterVec
	delivered    *prometheus.CounterVec
	failed       *prometheus.CounterVec
	evicted      *prometheus.CounterVec
	retries      prometheus.Counter
	sendDuration *prometheus.HistogramVec
	queueDepth   *prometheus.GaugeVec
}

// NewMetrics registers the dispatch metric set on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		enqueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifykit",
			Subsystem: "dispatch",
			Name:      "enqueued_total",
			Help:      "Notifications admitted to the priority queue.",
		}, []string{"priority"}),
		delivered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifykit",
			Subsystem: "dispatch",
			Name:      "delivered_total",
			Help:      "Notifications successfully delivered by a provider.",
		}, []string{"channel"}),
		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifykit",
			Subsystem: "dispatch",
			Name:      "failed_total",
			Help:      "Notifications that reached the failed state.",
		}, []string{"channel"}),
		evicted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifykit",
			Subsystem: "dispatch",
			Name:      "evicted_total",
			Help:      "Notifications dropped by the evict_lowest overflow policy.",
		}, []string{"priority"}),
		retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "notifykit",
			Subsystem: "dispatch",
			Name:      "retries_total",
			Help:      "Retry notifications scheduled after delivery failures.",
		}),
		sendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "notifykit",
			Subsystem: "dispatch",
			Name:      "send_duration_seconds",
			Help:      "Provider send call duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
		queueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "notifykit",
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Current priority queue depth per bucket.",
		}, []string{"priority"}),
	}
}

func (m *Metrics) observeEnqueued(p notification.Priority) {
	if m == nil {
		return
	}
	m.enqueued.WithLabelValues(p.String()).Inc()
}

func (m *Metrics) observeDelivered(c notification.Channel) {
	if m == nil {
		return
	}
	m.delivered.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) observeFailed(c notification.Channel) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) observeEvicted(p notification.Priority) {
	if m == nil {
		return
	}
	m.evicted.WithLabelValues(p.String()).Inc()
}

func (m *Metrics) observeRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) observeSendDuration(c notification.Channel, d time.Duration) {
	if m == nil {
		return
	}
	m.sendDuration.WithLabelValues(string(c)).Observe(d.Seconds())
}

func (m *Metrics) setQueueDepth(p notification.Priority, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(p.String()).Set(float64(depth))
}
