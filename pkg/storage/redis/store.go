package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Store is the Redis-backed notification.Store. Each notification is a JSON
// value under notifykit:notification:{id}; a per-recipient sorted set scored
// by creation time drives ListByRecipient. Intended for deployments that
// treat notification history as an expiring cache rather than a ledger, which
// is what the optional TTL is for.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL expires notification values and recipient indexes after d.
func WithTTL(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// NewStore creates a store on an existing Redis client.
func NewStore(client *redis.Client, opts ...StoreOption) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	notificationKeyPrefix = "notifykit:notification:"
	recipientKeyPrefix    = "notifykit:recipient:"
)

func notificationKey(id string) string       { return notificationKeyPrefix + id }
func recipientKey(recipientID string) string { return recipientKeyPrefix + recipientID }

// Save persists a notification snapshot and indexes it for its recipient.
func (s *Store) Save(ctx context.Context, n *notification.Notification) error {
	if n.ID == "" {
		return notification.ErrMissingID
	}
	if n.RecipientID == "" {
		return notification.ErrMissingRecipient
	}

	snap := n.Clone()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, notificationKey(snap.ID), payload, s.ttl)
	pipe.ZAdd(ctx, recipientKey(snap.RecipientID), redis.Z{
		Score:  float64(snap.CreatedAt.UnixNano()),
		Member: snap.ID,
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, recipientKey(snap.RecipientID), s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// UpdateStatus rewrites the stored snapshot with the new status. Entering the
// delivered state stamps SentAt unless one is already present.
func (s *Store) UpdateStatus(ctx context.Context, id string, status notification.Status, errMsg string) error {
	n, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	n.Status = status
	n.Error = errMsg
	if status == notification.StatusDelivered && n.SentAt == nil {
		now := time.Now()
		n.SentAt = &now
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, notificationKey(id), payload, s.ttl).Err()
}

// GetByID retrieves a single notification.
func (s *Store) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	payload, err := s.client.Get(ctx, notificationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notification.ErrNotFound
		}
		return nil, err
	}

	var n notification.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByRecipient returns notifications for a recipient, newest first. The
// index may reference values expired by TTL; those are skipped.
func (s *Store) ListByRecipient(ctx context.Context, recipientID string, opts notification.ListOptions) ([]*notification.Notification, error) {
	ids, err := s.client.ZRevRange(ctx, recipientKey(recipientID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var matched []*notification.Notification
	for _, id := range ids {
		n, err := s.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, notification.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if opts.Status != "" && n.Status != opts.Status {
			continue
		}
		if opts.OnlyUnread && n.ReadAt != nil {
			continue
		}
		if opts.Since != nil && !n.CreatedAt.After(*opts.Since) {
			continue
		}
		matched = append(matched, n)
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// MarkRead stamps ReadAt on the given notifications when they belong to the
// recipient and are still unread.
func (s *Store) MarkRead(ctx context.Context, recipientID string, ids ...string) error {
	now := time.Now()
	for _, id := range ids {
		n, err := s.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, notification.ErrNotFound) {
				continue
			}
			return err
		}
		if n.RecipientID != recipientID || n.ReadAt != nil {
			continue
		}

		n.ReadAt = &now
		payload, err := json.Marshal(n)
		if err != nil {
			return err
		}
		if err := s.client.Set(ctx, notificationKey(id), payload, s.ttl).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Healthcheck returns a probe suitable for readiness endpoints.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
