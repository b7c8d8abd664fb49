package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/provider/webhook"
)

func webhookNotification() *notification.Notification {
	return &notification.Notification{
		ID:          "n-1",
		TemplateID:  "payment-failed",
		RecipientID: "user-1",
		Channel:     notification.ChannelWebhook,
		Priority:    notification.PriorityHigh,
		Subject:     "Payment failed",
		Content:     "Your payment could not be processed.",
		CreatedAt:   time.Now(),
	}
}

func TestProvider_Send(t *testing.T) {
	t.Run("delivers a signed request", func(t *testing.T) {
		const secret = "shhh"

		var received struct {
			body    []byte
			headers webhook.SignatureHeaders
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			received.body = body

			ts, err := strconv.ParseInt(r.Header.Get("X-Webhook-Timestamp"), 10, 64)
			require.NoError(t, err)
			received.headers = webhook.SignatureHeaders{
				Signature: r.Header.Get("X-Webhook-Signature"),
				Timestamp: ts,
				ID:        r.Header.Get("X-Webhook-ID"),
			}

			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		p, err := webhook.New(webhook.Config{URL: srv.URL, Secret: secret})
		require.NoError(t, err)

		delivered, err := p.Send(context.Background(), webhookNotification())
		require.NoError(t, err)
		assert.True(t, delivered)

		require.NoError(t, webhook.VerifySignature(secret, received.body, received.headers, time.Minute),
			"receiver-side verification accepts the delivery")
		assert.NotEmpty(t, received.headers.ID)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(received.body, &payload))
		assert.Equal(t, "n-1", payload["id"])
		assert.Equal(t, "webhook", payload["channel"])
		assert.Equal(t, "high", payload["priority"])
	})

	t.Run("non-2xx is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		p, err := webhook.New(webhook.Config{URL: srv.URL, Secret: "shhh"})
		require.NoError(t, err)

		delivered, err := p.Send(context.Background(), webhookNotification())
		assert.False(t, delivered)
		assert.ErrorIs(t, err, webhook.ErrDeliveryFailed)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		p, err := webhook.New(webhook.Config{URL: "http://127.0.0.1:1", Secret: "shhh", Timeout: 100 * time.Millisecond})
		require.NoError(t, err)

		delivered, err := p.Send(context.Background(), webhookNotification())
		assert.False(t, delivered)
		assert.ErrorIs(t, err, webhook.ErrDeliveryFailed)
	})
}

func TestNew_Validation(t *testing.T) {
	_, err := webhook.New(webhook.Config{Secret: "shhh"})
	assert.ErrorIs(t, err, webhook.ErrInvalidConfig)

	_, err = webhook.New(webhook.Config{URL: "http://example.com"})
	assert.ErrorIs(t, err, webhook.ErrInvalidConfig)
}

func TestVerifySignature(t *testing.T) {
	const secret = "shhh"
	payload := []byte(`{"id":"n-1"}`)

	sig, err := webhook.SignPayload(secret, payload)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, webhook.VerifySignature(secret, payload, sig, time.Minute))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.ErrorIs(t, webhook.VerifySignature("other", payload, sig, time.Minute),
			webhook.ErrSignatureMismatch)
	})

	t.Run("tampered payload", func(t *testing.T) {
		assert.ErrorIs(t, webhook.VerifySignature(secret, []byte(`{"id":"n-2"}`), sig, time.Minute),
			webhook.ErrSignatureMismatch)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		old := sig
		old.Timestamp = time.Now().Add(-time.Hour).Unix()
		assert.ErrorIs(t, webhook.VerifySignature(secret, payload, old, time.Minute),
			webhook.ErrSignatureMismatch)
	})

	t.Run("empty secret on sign", func(t *testing.T) {
		_, err := webhook.SignPayload("", payload)
		assert.ErrorIs(t, err, webhook.ErrInvalidConfig)
	})
}
