package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

func TestRouter_Resolve(t *testing.T) {
	t.Run("primary provider wins", func(t *testing.T) {
		r := New()
		require.NoError(t, r.AddRoute(notification.ChannelEmail, "p1"))
		require.NoError(t, r.AddRoute(notification.ChannelEmail, "p2"))

		got, err := r.Resolve(&notification.Notification{Channel: notification.ChannelEmail})
		require.NoError(t, err)
		assert.Equal(t, "p1", got)
	})

	t.Run("fallback channel resolves", func(t *testing.T) {
		r := New()
		require.NoError(t, r.AddRoute(notification.ChannelEmail, "p1"))
		require.NoError(t, r.SetFallback(notification.ChannelSMS, notification.ChannelEmail))

		got, err := r.Resolve(&notification.Notification{Channel: notification.ChannelSMS})
		require.NoError(t, err)
		assert.Equal(t, "p1", got)
	})

	t.Run("no route and no fallback", func(t *testing.T) {
		r := New()
		_, err := r.Resolve(&notification.Notification{Channel: notification.ChannelSMS})
		require.Error(t, err)

		var noRoute *NoRouteError
		require.ErrorAs(t, err, &noRoute)
		assert.Equal(t, notification.ChannelSMS, noRoute.Channel)
	})

	t.Run("fallback is exactly one hop", func(t *testing.T) {
		r := New()
		// SMS -> Push -> Email is configured, but only Email has a provider.
		// Resolving SMS must not chase the chain past Push.
		require.NoError(t, r.AddRoute(notification.ChannelEmail, "p1"))
		require.NoError(t, r.SetFallback(notification.ChannelSMS, notification.ChannelPush))
		require.NoError(t, r.SetFallback(notification.ChannelPush, notification.ChannelEmail))

		_, err := r.Resolve(&notification.Notification{Channel: notification.ChannelSMS})
		assert.True(t, IsNoRouteError(err))
	})

	t.Run("empty fallback channel fails with original channel", func(t *testing.T) {
		r := New()
		require.NoError(t, r.SetFallback(notification.ChannelSMS, notification.ChannelEmail))

		_, err := r.Resolve(&notification.Notification{Channel: notification.ChannelSMS})
		var noRoute *NoRouteError
		require.ErrorAs(t, err, &noRoute)
		assert.Equal(t, notification.ChannelSMS, noRoute.Channel)
	})
}

func TestRouter_AddRoute(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.AddRoute("pigeon", "p1"), ErrInvalidChannel)
	assert.ErrorIs(t, r.AddRoute(notification.ChannelEmail, ""), ErrMissingProviderID)

	require.NoError(t, r.AddRoute(notification.ChannelEmail, "p1"))
	require.NoError(t, r.AddRoute(notification.ChannelEmail, "p2"))
	assert.Equal(t, []string{"p1", "p2"}, r.Providers(notification.ChannelEmail))
}

func TestRouter_SetFallback(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.SetFallback(notification.ChannelSMS, notification.ChannelSMS), ErrSelfFallback)
	assert.ErrorIs(t, r.SetFallback("pigeon", notification.ChannelSMS), ErrInvalidChannel)
	assert.NoError(t, r.SetFallback(notification.ChannelSMS, notification.ChannelEmail))
}
