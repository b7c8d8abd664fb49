package slack

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

var (
	// ErrInvalidConfig is returned when the webhook URL is missing.
	ErrInvalidConfig = errors.New("invalid slack provider config")

	// ErrDeliveryFailed wraps transport failures and non-OK responses.
	ErrDeliveryFailed = errors.New("slack delivery failed")
)

type Config struct {
	WebhookURL string        `env:"SLACK_WEBHOOK_URL,required"`     // WebhookURL is the Slack incoming webhook endpoint.
	Channel    string        `env:"SLACK_CHANNEL"`                  // Channel optionally overrides the webhook's default channel.
	Username   string        `env:"SLACK_USERNAME"`                 // Username optionally overrides the bot display name.
	IconEmoji  string        `env:"SLACK_ICON_EMOJI"`               // IconEmoji optionally overrides the bot icon.
	Timeout    time.Duration `env:"SLACK_TIMEOUT" envDefault:"10s"` // Timeout bounds one delivery attempt.
}

// message is the incoming-webhook payload.
type message struct {
	Text      string `json:"text"`
	Channel   string `json:"channel,omitempty"`
	Username  string `json:"username,omitempty"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

// Provider delivers notifications to a Slack incoming webhook. The subject
// becomes a bold first line above the content.
type Provider struct {
	config Config
	client *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// New creates a Slack provider for one incoming webhook.
func New(cfg Config, opts ...Option) (*Provider, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("%w: WebhookURL is required", ErrInvalidConfig)
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

// Send posts the notification text to the webhook. Slack answers incoming
// webhooks with 200 "ok" on success; anything else is a failure.
func (p *Provider) Send(ctx context.Context, n *notification.Notification) (bool, error) {
	text := n.Content
	if n.Subject != "" {
		text = "*" + n.Subject + "*\n" + n.Content
	}

	body, err := json.Marshal(message{
		Text:      text,
		Channel:   p.config.Channel,
		Username:  p.config.Username,
		IconEmoji: p.config.IconEmoji,
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return false, errors.Join(ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: slack returned %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return true, nil
}
