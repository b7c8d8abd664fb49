package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	redisstore "github.com/dmitrymomot/notifykit/pkg/storage/redis"
)

// newTestStore connects to the server named by TEST_REDIS_URL. Tests are
// skipped when the variable is unset.
func newTestStore(t *testing.T) *redisstore.Store {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set, skipping redis integration tests")
	}

	client, err := redisstore.Connect(context.Background(), redisstore.Config{
		ConnectionURL:  url,
		RetryAttempts:  1,
		RetryInterval:  time.Second,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return redisstore.NewStore(client)
}

func newStoredNotification(recipientID string) *notification.Notification {
	return &notification.Notification{
		ID:          uuid.NewString(),
		TemplateID:  "welcome",
		RecipientID: recipientID,
		Channel:     notification.ChannelInApp,
		Priority:    notification.PriorityNormal,
		Subject:     "Welcome",
		Content:     "Hello",
		Status:      notification.StatusPending,
		Attempt:     1,
		CreatedAt:   time.Now(),
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n := newStoredNotification(uuid.NewString())
	require.NoError(t, store.Save(ctx, n))

	got, err := store.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, notification.StatusPending, got.Status)

	_, err = store.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, notification.ErrNotFound)
}

func TestStore_UpdateStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n := newStoredNotification(uuid.NewString())
	require.NoError(t, store.Save(ctx, n))

	require.NoError(t, store.UpdateStatus(ctx, n.ID, notification.StatusDelivered, ""))

	got, err := store.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusDelivered, got.Status)
	assert.NotNil(t, got.SentAt)

	assert.ErrorIs(t, store.UpdateStatus(ctx, uuid.NewString(), notification.StatusFailed, "x"),
		notification.ErrNotFound)
}

func TestStore_ListByRecipient(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	recipient := uuid.NewString()

	var ids []string
	for i := 0; i < 3; i++ {
		n := newStoredNotification(recipient)
		n.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, store.Save(ctx, n))
		ids = append(ids, n.ID)
	}
	require.NoError(t, store.UpdateStatus(ctx, ids[0], notification.StatusFailed, "boom"))

	list, err := store.ListByRecipient(ctx, recipient, notification.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID, "newest first")

	failed, err := store.ListByRecipient(ctx, recipient, notification.ListOptions{
		Status: notification.StatusFailed,
	})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, ids[0], failed[0].ID)

	page, err := store.ListByRecipient(ctx, recipient, notification.ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestStore_MarkRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	recipient := uuid.NewString()

	n := newStoredNotification(recipient)
	require.NoError(t, store.Save(ctx, n))

	require.NoError(t, store.MarkRead(ctx, recipient, n.ID))
	got, err := store.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ReadAt)

	// Wrong recipient is a no-op.
	other := newStoredNotification(recipient)
	require.NoError(t, store.Save(ctx, other))
	require.NoError(t, store.MarkRead(ctx, uuid.NewString(), other.ID))

	got, err = store.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReadAt)
}
