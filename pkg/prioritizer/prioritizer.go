package prioritizer

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Rule inspects a notification and proposes a priority. Rules must be pure:
// same notification, same answer.
type Rule func(n *notification.Notification) (notification.Priority, error)

// ErrMissingRuleID is returned when registering a rule without an ID.
var ErrMissingRuleID = errors.New("rule ID is required")

// ErrNilRule is returned when registering a nil rule function.
var ErrNilRule = errors.New("rule function cannot be nil")

// Prioritizer applies a chain of escalation rules before a notification is
// queued. Rules can only raise the effective priority, never lower it, which
// is what makes the chain composable: rules cannot fight each other to demote
// urgency.
type Prioritizer struct {
	ruleIDs []string // registration order, for deterministic evaluation
	rules   map[string]Rule
	logger  *slog.Logger
	mu      sync.RWMutex
}

// Option configures a Prioritizer.
type Option func(*Prioritizer)

// WithLogger sets the logger used to report skipped rules.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prioritizer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a prioritizer with no rules; Compute then returns the
// notification's own priority unchanged.
func New(opts ...Option) *Prioritizer {
	p := &Prioritizer{
		rules:  make(map[string]Rule),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddRule registers an escalation rule under an ID. Registering the same ID
// again replaces the previous rule.
func (p *Prioritizer) AddRule(ruleID string, fn Rule) error {
	if ruleID == "" {
		return ErrMissingRuleID
	}
	if fn == nil {
		return ErrNilRule
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.rules[ruleID]; !exists {
		p.ruleIDs = append(p.ruleIDs, ruleID)
	}
	p.rules[ruleID] = fn
	return nil
}

// Compute returns the maximum of the notification's current priority and
// every rule's output. A rule that errors or proposes an out-of-range
// priority is logged and skipped; one bad rule never blocks dispatch.
func (p *Prioritizer) Compute(n *notification.Notification) notification.Priority {
	p.mu.RLock()
	defer p.mu.RUnlock()

	effective := n.Priority
	for _, id := range p.ruleIDs {
		proposed, err := p.rules[id](n)
		if err != nil {
			p.logger.Warn("priority rule failed, skipping",
				slog.String("rule_id", id),
				slog.String("notification_id", n.ID),
				slog.String("error", err.Error()))
			continue
		}
		if !proposed.Valid() {
			p.logger.Warn("priority rule proposed out-of-range priority, skipping",
				slog.String("rule_id", id),
				slog.String("notification_id", n.ID),
				slog.Int("proposed", int(proposed)))
			continue
		}
		if proposed > effective {
			effective = proposed
		}
	}
	return effective
}
