package notification

import (
	"sync"
	"time"
)

// Channel represents a delivery medium for notifications.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelSMS     Channel = "sms"
	ChannelPush    Channel = "push"
	ChannelInApp   Channel = "in_app"
	ChannelWebhook Channel = "webhook"
	ChannelSlack   Channel = "slack"
)

// Valid reports whether the channel is one of the known delivery media.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp, ChannelWebhook, ChannelSlack:
		return true
	}
	return false
}

// Priority represents the urgency of a notification. The ordering is total:
// a higher value always wins queue scheduling over a lower one.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
	PriorityCritical
)

// PriorityLevels is the number of distinct priority levels.
const PriorityLevels = int(PriorityCritical) + 1

// Valid reports whether the priority is within the known range.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Status represents the lifecycle state of a notification.
type Status string

const (
	StatusPending   Status = "pending"
	StatusQueued    Status = "queued"
	StatusSending   Status = "sending"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether the status is final. Terminal notifications
// never transition again; retries are modeled as fresh notifications.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// transitions is the full lifecycle table. Each state maps to the set of
// states reachable from it; terminal states map to nothing.
var transitions = map[Status]map[Status]struct{}{
	StatusPending: {StatusQueued: {}},
	StatusQueued:  {StatusSending: {}},
	StatusSending: {StatusDelivered: {}, StatusFailed: {}},
}

// Notification is one message instance moving through the dispatch lifecycle.
// Status changes must go through Transition; callers never set Status directly.
type Notification struct {
	ID           string            `json:"id"`
	TemplateID   string            `json:"template_id"`
	RecipientID  string            `json:"recipient_id"`
	Channel      Channel           `json:"channel"`
	Priority     Priority          `json:"priority"`
	Subject      string            `json:"subject"`
	Content      string            `json:"content"`
	Status       Status            `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Attempt      int               `json:"attempt"`
	Error        string            `json:"error,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	ScheduledFor *time.Time        `json:"scheduled_for,omitempty"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	ReadAt       *time.Time        `json:"read_at,omitempty"`

	mu sync.Mutex
}

// Transition moves the notification to a new lifecycle state, enforcing the
// transition table. An invalid transition returns InvalidTransitionError and
// leaves the notification unchanged. Entering StatusDelivered records SentAt.
func (n *Notification) Transition(to Status) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	allowed, ok := transitions[n.Status]
	if !ok {
		return NewInvalidTransitionError(n.Status, to)
	}
	if _, ok := allowed[to]; !ok {
		return NewInvalidTransitionError(n.Status, to)
	}

	n.Status = to
	if to == StatusDelivered {
		now := time.Now()
		n.SentAt = &now
	}
	return nil
}

// CanTransition reports whether a transition to the given state is legal
// without performing it.
func (n *Notification) CanTransition(to Status) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	allowed, ok := transitions[n.Status]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Fail records the delivery error and moves the notification to StatusFailed.
// The error is recorded only if the transition is legal, so a terminal
// notification is never mutated.
func (n *Notification) Fail(cause error) error {
	if !n.CanTransition(StatusFailed) {
		return NewInvalidTransitionError(n.CurrentStatus(), StatusFailed)
	}
	n.mu.Lock()
	if cause != nil {
		n.Error = cause.Error()
	}
	n.mu.Unlock()
	return n.Transition(StatusFailed)
}

// CurrentStatus returns the status under the state lock. Prefer this over
// reading Status directly when the notification may be owned by a worker.
func (n *Notification) CurrentStatus() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Status
}

// MarkRead records the read timestamp. Idempotent.
func (n *Notification) MarkRead() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ReadAt == nil {
		now := time.Now()
		n.ReadAt = &now
	}
}

// Clone returns a copy of the notification without the internal lock state.
// Stores use it to decouple persisted snapshots from the live instance.
func (n *Notification) Clone() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := &Notification{
		ID:          n.ID,
		TemplateID:  n.TemplateID,
		RecipientID: n.RecipientID,
		Channel:     n.Channel,
		Priority:    n.Priority,
		Subject:     n.Subject,
		Content:     n.Content,
		Status:      n.Status,
		Attempt:     n.Attempt,
		Error:       n.Error,
		CreatedAt:   n.CreatedAt,
	}
	if n.Metadata != nil {
		out.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			out.Metadata[k] = v
		}
	}
	if n.ScheduledFor != nil {
		t := *n.ScheduledFor
		out.ScheduledFor = &t
	}
	if n.SentAt != nil {
		t := *n.SentAt
		out.SentAt = &t
	}
	if n.ReadAt != nil {
		t := *n.ReadAt
		out.ReadAt = &t
	}
	return out
}
