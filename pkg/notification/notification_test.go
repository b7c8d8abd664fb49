package notification

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotification_Transition(t *testing.T) {
	t.Run("legal path reaches delivered", func(t *testing.T) {
		n := &Notification{Status: StatusPending}

		require.NoError(t, n.Transition(StatusQueued))
		require.NoError(t, n.Transition(StatusSending))
		require.NoError(t, n.Transition(StatusDelivered))

		assert.Equal(t, StatusDelivered, n.CurrentStatus())
		require.NotNil(t, n.SentAt)
		assert.WithinDuration(t, time.Now(), *n.SentAt, time.Second)
	})

	t.Run("skipping states is rejected", func(t *testing.T) {
		n := &Notification{Status: StatusPending}

		err := n.Transition(StatusDelivered)
		require.Error(t, err)

		var invalidErr *InvalidTransitionError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, StatusPending, invalidErr.From)
		assert.Equal(t, StatusDelivered, invalidErr.To)

		// The failed transition must leave the instance unchanged.
		assert.Equal(t, StatusPending, n.CurrentStatus())
		assert.Nil(t, n.SentAt)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		n := &Notification{Status: StatusPending}
		require.NoError(t, n.Transition(StatusQueued))
		require.NoError(t, n.Transition(StatusSending))
		require.NoError(t, n.Transition(StatusDelivered))

		err := n.Transition(StatusSending)
		require.Error(t, err)
		assert.True(t, IsInvalidTransitionError(err))
		assert.Equal(t, StatusDelivered, n.CurrentStatus())
	})

	t.Run("no state is revisited", func(t *testing.T) {
		n := &Notification{Status: StatusQueued}
		require.NoError(t, n.Transition(StatusSending))
		assert.Error(t, n.Transition(StatusQueued))
	})
}

func TestNotification_Fail(t *testing.T) {
	t.Run("records cause and transitions", func(t *testing.T) {
		n := &Notification{Status: StatusSending}
		cause := errors.New("smtp: connection refused")

		require.NoError(t, n.Fail(cause))
		assert.Equal(t, StatusFailed, n.CurrentStatus())
		assert.Equal(t, "smtp: connection refused", n.Error)
	})

	t.Run("rejects failing a terminal notification without mutation", func(t *testing.T) {
		n := &Notification{Status: StatusDelivered}

		err := n.Fail(errors.New("late failure"))
		require.Error(t, err)
		assert.True(t, IsInvalidTransitionError(err))
		assert.Empty(t, n.Error)
	})
}

func TestNotification_MarkRead(t *testing.T) {
	n := &Notification{Status: StatusDelivered}
	n.MarkRead()
	require.NotNil(t, n.ReadAt)

	first := *n.ReadAt
	n.MarkRead()
	assert.Equal(t, first, *n.ReadAt, "MarkRead must be idempotent")
}

func TestNotification_Clone(t *testing.T) {
	scheduled := time.Now().Add(time.Hour)
	n := &Notification{
		ID:           "n1",
		RecipientID:  "u1",
		Channel:      ChannelEmail,
		Priority:     PriorityHigh,
		Status:       StatusPending,
		Metadata:     map[string]string{"source": "billing"},
		ScheduledFor: &scheduled,
		CreatedAt:    time.Now(),
	}

	clone := n.Clone()
	clone.Metadata["source"] = "changed"
	*clone.ScheduledFor = clone.ScheduledFor.Add(time.Hour)

	assert.Equal(t, "billing", n.Metadata["source"])
	assert.Equal(t, scheduled, *n.ScheduledFor)
}

func TestPriority_Ordering(t *testing.T) {
	assert.True(t, PriorityLow < PriorityNormal)
	assert.True(t, PriorityNormal < PriorityHigh)
	assert.True(t, PriorityHigh < PriorityUrgent)
	assert.True(t, PriorityUrgent < PriorityCritical)
	assert.Equal(t, 5, PriorityLevels)
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusQueued.IsTerminal())
	assert.False(t, StatusSending.IsTerminal())
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
}
