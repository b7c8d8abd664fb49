package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

type Config struct {
	URL     string        `env:"WEBHOOK_URL,required"`              // URL is the receiving endpoint.
	Secret  string        `env:"WEBHOOK_SECRET,required"`           // Secret signs every delivery.
	Timeout time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`  // Timeout bounds one delivery attempt.
}

// payload is the JSON body posted to the endpoint.
type payload struct {
	ID          string            `json:"id"`
	TemplateID  string            `json:"template_id,omitempty"`
	RecipientID string            `json:"recipient_id"`
	Channel     string            `json:"channel"`
	Priority    string            `json:"priority"`
	Subject     string            `json:"subject,omitempty"`
	Content     string            `json:"content"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Provider delivers notifications as signed HTTP POST requests. Receivers
// authenticate deliveries with VerifySignature.
type Provider struct {
	config Config
	client *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the default HTTP client, e.g. to add a proxy or
// custom transport.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// New creates a webhook provider for one endpoint.
func New(cfg Config, opts ...Option) (*Provider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrInvalidConfig)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: Secret is required", ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	p := &Provider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Send posts the notification to the endpoint. Any 2xx response counts as
// delivered; everything else is a failure the dispatcher may retry.
func (p *Provider) Send(ctx context.Context, n *notification.Notification) (bool, error) {
	body, err := json.Marshal(payload{
		ID:          n.ID,
		TemplateID:  n.TemplateID,
		RecipientID: n.RecipientID,
		Channel:     string(n.Channel),
		Priority:    n.Priority.String(),
		Subject:     n.Subject,
		Content:     n.Content,
		Metadata:    n.Metadata,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		return false, err
	}

	sig, err := SignPayload(p.config.Secret, body)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range sig.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, errors.Join(ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("%w: endpoint returned %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return true, nil
}
