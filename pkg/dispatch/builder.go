package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/template"
)

// SendParams describes one message to dispatch. TemplateID and RecipientID
// are required; Priority defaults to low and may be escalated by the
// prioritizer. A future ScheduledFor defers enqueueing until that time.
type SendParams struct {
	TemplateID   string
	RecipientID  string
	Data         map[string]string
	Priority     notification.Priority
	Metadata     map[string]string
	ScheduledFor *time.Time
}

// Builder assembles fully rendered, pending notifications from SendParams.
// Construction is all-or-nothing: a missing template or variable yields an
// error and no notification, so partially built instances never exist.
type Builder struct {
	templates *template.Registry
}

// NewBuilder creates a builder rendering against the given template registry.
func NewBuilder(templates *template.Registry) *Builder {
	return &Builder{templates: templates}
}

// Build validates params, renders the template and returns a new notification
// in StatusPending. The channel comes from the template; the ID is a fresh
// UUID so every retry or resend is a distinct instance.
func (b *Builder) Build(params SendParams) (*notification.Notification, error) {
	if params.RecipientID == "" {
		return nil, ErrMissingRecipientID
	}
	if !params.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	tmpl, err := b.templates.Get(params.TemplateID)
	if err != nil {
		return nil, err
	}
	subject, content, err := b.templates.Render(params.TemplateID, params.Data)
	if err != nil {
		return nil, err
	}

	n := &notification.Notification{
		ID:           uuid.NewString(),
		TemplateID:   params.TemplateID,
		RecipientID:  params.RecipientID,
		Channel:      tmpl.Channel,
		Priority:     params.Priority,
		Subject:      subject,
		Content:      content,
		Status:       notification.StatusPending,
		Attempt:      1,
		CreatedAt:    time.Now(),
		ScheduledFor: params.ScheduledFor,
	}
	if len(params.Metadata) > 0 {
		n.Metadata = make(map[string]string, len(params.Metadata))
		for k, v := range params.Metadata {
			n.Metadata[k] = v
		}
	}
	return n, nil
}
