package template

import (
	"strings"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Template is a reusable subject/body pattern for one channel. The body and
// subject may contain {name} placeholders; RequiredVariables is the
// authoritative list validated against input data before rendering.
type Template struct {
	ID                string               `yaml:"id" json:"id"`
	Channel           notification.Channel `yaml:"channel" json:"channel"`
	Subject           string               `yaml:"subject" json:"subject"`
	Body              string               `yaml:"body" json:"body"`
	RequiredVariables []string             `yaml:"required_variables" json:"required_variables"`
	Metadata          map[string]string    `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Version           int                  `yaml:"version" json:"version"`
}

// Registry holds notification templates keyed by ID. It is read-mostly:
// populated at startup, consulted on every send.
type Registry struct {
	templates map[string]Template
	mu        sync.RWMutex
}

// NewRegistry creates an empty template registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Register stores a template, overwriting any previous template with the same ID.
func (r *Registry) Register(t Template) error {
	if t.ID == "" {
		return ErrMissingTemplateID
	}
	if !t.Channel.Valid() {
		return ErrInvalidChannel
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID] = t
	return nil
}

// Get returns the template registered under the given ID.
func (r *Registry) Get(id string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]
	if !ok {
		return Template{}, NewTemplateNotFoundError(id)
	}
	return t, nil
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Render resolves the template and substitutes {name} placeholders in both
// subject and body. Every entry of RequiredVariables must be present in data
// or rendering fails with MissingVariableError; extra keys are ignored.
// Substitution is literal and single-pass: substituted values are never
// re-expanded.
func (r *Registry) Render(id string, data map[string]string) (subject, content string, err error) {
	t, err := r.Get(id)
	if err != nil {
		return "", "", err
	}

	for _, name := range t.RequiredVariables {
		if _, ok := data[name]; !ok {
			return "", "", NewMissingVariableError(id, name)
		}
	}

	pairs := make([]string, 0, len(data)*2)
	for name, value := range data {
		pairs = append(pairs, "{"+name+"}", value)
	}
	replacer := strings.NewReplacer(pairs...)

	return replacer.Replace(t.Subject), replacer.Replace(t.Body), nil
}
