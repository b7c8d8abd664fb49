package slack_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/provider/slack"
)

func slackNotification() *notification.Notification {
	return &notification.Notification{
		ID:          "n-1",
		RecipientID: "ops-team",
		Channel:     notification.ChannelSlack,
		Subject:     "Deploy finished",
		Content:     "v1.4.2 is live.",
	}
}

func TestProvider_Send(t *testing.T) {
	t.Run("posts the formatted message", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &got))
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		p, err := slack.New(slack.Config{
			WebhookURL: srv.URL,
			Channel:    "#alerts",
			Username:   "notifykit",
		})
		require.NoError(t, err)

		delivered, err := p.Send(context.Background(), slackNotification())
		require.NoError(t, err)
		assert.True(t, delivered)

		assert.Equal(t, "*Deploy finished*\nv1.4.2 is live.", got["text"])
		assert.Equal(t, "#alerts", got["channel"])
		assert.Equal(t, "notifykit", got["username"])
	})

	t.Run("subject-less notification posts content alone", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		p, err := slack.New(slack.Config{WebhookURL: srv.URL})
		require.NoError(t, err)

		n := slackNotification()
		n.Subject = ""
		_, err = p.Send(context.Background(), n)
		require.NoError(t, err)
		assert.Equal(t, "v1.4.2 is live.", got["text"])
	})

	t.Run("non-OK response is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid_payload", http.StatusBadRequest)
		}))
		defer srv.Close()

		p, err := slack.New(slack.Config{WebhookURL: srv.URL})
		require.NoError(t, err)

		delivered, err := p.Send(context.Background(), slackNotification())
		assert.False(t, delivered)
		assert.ErrorIs(t, err, slack.ErrDeliveryFailed)
	})
}

func TestNew_Validation(t *testing.T) {
	_, err := slack.New(slack.Config{})
	assert.ErrorIs(t, err, slack.ErrInvalidConfig)
}
