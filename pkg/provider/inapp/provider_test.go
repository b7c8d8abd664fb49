package inapp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/provider/inapp"
)

func inappNotification(recipientID string) *notification.Notification {
	return &notification.Notification{
		ID:          "n-1",
		RecipientID: recipientID,
		Channel:     notification.ChannelInApp,
		Content:     "hello",
	}
}

func TestProvider_SendAndSubscribe(t *testing.T) {
	t.Run("subscriber receives a clone", func(t *testing.T) {
		p := inapp.New()
		defer p.Close()

		feed, cancel, err := p.Subscribe("user-1")
		require.NoError(t, err)
		defer cancel()

		n := inappNotification("user-1")
		delivered, err := p.Send(context.Background(), n)
		require.NoError(t, err)
		assert.True(t, delivered)

		select {
		case got := <-feed:
			assert.Equal(t, n.ID, got.ID)
			assert.NotSame(t, n, got, "subscribers get clones, never the live instance")
		case <-time.After(time.Second):
			t.Fatal("subscriber never received the notification")
		}
	})

	t.Run("fan-out to multiple subscribers", func(t *testing.T) {
		p := inapp.New()
		defer p.Close()

		first, cancelFirst, err := p.Subscribe("user-1")
		require.NoError(t, err)
		defer cancelFirst()
		second, cancelSecond, err := p.Subscribe("user-1")
		require.NoError(t, err)
		defer cancelSecond()

		_, err = p.Send(context.Background(), inappNotification("user-1"))
		require.NoError(t, err)

		assert.Len(t, first, 1)
		assert.Len(t, second, 1)
	})

	t.Run("other recipients see nothing", func(t *testing.T) {
		p := inapp.New()
		defer p.Close()

		feed, cancel, err := p.Subscribe("user-2")
		require.NoError(t, err)
		defer cancel()

		_, err = p.Send(context.Background(), inappNotification("user-1"))
		require.NoError(t, err)
		assert.Empty(t, feed)
	})

	t.Run("no subscribers still counts as delivered", func(t *testing.T) {
		p := inapp.New()
		defer p.Close()

		delivered, err := p.Send(context.Background(), inappNotification("user-1"))
		require.NoError(t, err)
		assert.True(t, delivered, "the persistent store is the feed of record")
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		p := inapp.New(inapp.WithBufferSize(1))
		defer p.Close()

		feed, cancel, err := p.Subscribe("user-1")
		require.NoError(t, err)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 5; i++ {
				_, _ = p.Send(context.Background(), inappNotification("user-1"))
			}
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("send blocked on a slow subscriber")
		}
		assert.Len(t, feed, 1, "overflow messages are dropped for the slow subscriber")
	})
}

func TestProvider_Unsubscribe(t *testing.T) {
	p := inapp.New()
	defer p.Close()

	feed, cancel, err := p.Subscribe("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.SubscriberCount("user-1"))

	cancel()
	cancel() // safe to call twice
	assert.Zero(t, p.SubscriberCount("user-1"))

	_, open := <-feed
	assert.False(t, open, "cancel closes the feed channel")
}

func TestProvider_Close(t *testing.T) {
	p := inapp.New()

	feed, cancel, err := p.Subscribe("user-1")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "idempotent")

	_, open := <-feed
	assert.False(t, open)

	_, err = p.Send(context.Background(), inappNotification("user-1"))
	assert.ErrorIs(t, err, inapp.ErrClosed)

	_, _, err = p.Subscribe("user-1")
	assert.ErrorIs(t, err, inapp.ErrClosed)
}
