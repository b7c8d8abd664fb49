package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// sender is the slice of the Postmark client the provider needs. Narrowed to
// an interface so tests can run without the Postmark API.
type sender interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// AddressResolver maps a recipient ID to an email address. The default
// resolver reads the "recipient_email" metadata key from the notification.
type AddressResolver func(ctx context.Context, n *notification.Notification) (string, error)

// MetadataAddressKey is the notification metadata key consulted by the
// default address resolver.
const MetadataAddressKey = "recipient_email"

// Provider delivers notifications over email through Postmark's
// transactional API.
type Provider struct {
	client  sender
	config  Config
	resolve AddressResolver
}

// Option configures a Provider.
type Option func(*Provider)

// WithAddressResolver replaces the default metadata-based address lookup,
// for deployments that keep addresses in their own user store.
func WithAddressResolver(fn AddressResolver) Option {
	return func(p *Provider) {
		if fn != nil {
			p.resolve = fn
		}
	}
}

// New creates a Postmark-backed provider. Tokens and sender address are
// required so a misconfigured deployment fails at startup, not at first send.
func New(cfg Config, opts ...Option) (*Provider, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.ReplyToEmail != "" && !emailRegex.MatchString(cfg.ReplyToEmail) {
		return nil, fmt.Errorf("%w: ReplyToEmail must be a valid email address", ErrInvalidConfig)
	}

	p := &Provider{
		client:  postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config:  cfg,
		resolve: metadataResolver,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func metadataResolver(_ context.Context, n *notification.Notification) (string, error) {
	addr := n.Metadata[MetadataAddressKey]
	if addr == "" {
		return "", fmt.Errorf("%w: metadata key %q is empty", ErrNoRecipientAddress, MetadataAddressKey)
	}
	return addr, nil
}

// Send delivers the notification as a transactional email. The template ID
// is attached as the Postmark tag for per-template delivery analytics.
func (p *Provider) Send(ctx context.Context, n *notification.Notification) (bool, error) {
	addr, err := p.resolve(ctx, n)
	if err != nil {
		return false, err
	}

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.config.SenderEmail,
		ReplyTo:  p.config.ReplyToEmail,
		To:       addr,
		Subject:  n.Subject,
		Tag:      n.TemplateID,
		TextBody: n.Content,
	})
	if err != nil {
		return false, errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return false, errors.Join(ErrSendFailed, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return true, nil
}
