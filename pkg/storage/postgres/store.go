package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Store is the PostgreSQL-backed notification.Store. Notifications are stored
// as one row each with metadata in a JSONB column.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a store on an existing connection pool. Run Migrate before
// first use.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const notificationColumns = `id, template_id, recipient_id, channel, priority, subject, content,
	status, metadata, attempt, error, created_at, scheduled_for, sent_at, read_at`

// Save persists a notification snapshot, upserting on ID so re-saving the
// same instance after a lifecycle change is safe.
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

	var metadata []byte
	if len(snap.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(snap.Metadata); err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			metadata = EXCLUDED.metadata,
			attempt = EXCLUDED.attempt,
			error = EXCLUDED.error,
			scheduled_for = EXCLUDED.scheduled_for,
			sent_at = EXCLUDED.sent_at,
			read_at = EXCLUDED.read_at`,
		snap.ID, snap.TemplateID, snap.RecipientID, string(snap.Channel), int(snap.Priority),
		snap.Subject, snap.Content, string(snap.Status), metadata, snap.Attempt, snap.Error,
		snap.CreatedAt, snap.ScheduledFor, snap.SentAt, snap.ReadAt,
	)
	return err
}

// UpdateStatus records a status change. Entering the delivered state stamps
// sent_at unless one is already present.
func (s *Store) UpdateStatus(ctx context.Context, id string, status notification.Status, errMsg string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET status = $2,
			error = $3,
			sent_at = CASE WHEN $2 = $4 AND sent_at IS NULL THEN now() ELSE sent_at END
		WHERE id = $1`,
		id, string(status), errMsg, string(notification.StatusDelivered),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotFound
	}
	return nil
}

// GetByID retrieves a single notification.
func (s *Store) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications WHERE id = $1`, id)

	n, err := scanNotification(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, notification.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

// ListByRecipient returns notifications for a recipient, newest first,
// applying the status, unread, since and pagination filters.
func (s *Store) ListByRecipient(ctx context.Context, recipientID string, opts notification.ListOptions) ([]*notification.Notification, error) {
	var (
		where = []string{"recipient_id = $1"}
		args  = []any{recipientID}
	)
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if opts.OnlyUnread {
		where = append(where, "read_at IS NULL")
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		where = append(where, fmt.Sprintf("created_at > $%d", len(args)))
	}

	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead stamps read_at on the given notifications. The recipient filter
// stops one recipient from marking another's notifications read.
func (s *Store) MarkRead(ctx context.Context, recipientID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET read_at = now()
		WHERE recipient_id = $1 AND id = ANY($2) AND read_at IS NULL`,
		recipientID, ids,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*notification.Notification, error) {
	var (
		n        notification.Notification
		channel  string
		priority int
		status   string
		metadata []byte
	)
	if err := row.Scan(
		&n.ID, &n.TemplateID, &n.RecipientID, &channel, &priority, &n.Subject, &n.Content,
		&status, &metadata, &n.Attempt, &n.Error, &n.CreatedAt, &n.ScheduledFor, &n.SentAt, &n.ReadAt,
	); err != nil {
		return nil, err
	}

	n.Channel = notification.Channel(channel)
	n.Priority = notification.Priority(priority)
	n.Status = notification.Status(status)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &n, nil
}
