package notification

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Suitable for development and testing.
type MemoryStore struct {
	byID        map[string]*Notification
	byRecipient map[string][]string // recipientID -> notification IDs, insertion order
	mu          sync.RWMutex
}

// NewMemoryStore creates a new in-memory notification store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:        make(map[string]*Notification),
		byRecipient: make(map[string][]string),
	}
}

func (s *MemoryStore) Save(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		return ErrMissingID
	}
	if n.RecipientID == "" {
		return ErrMissingRecipient
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a snapshot so the live instance can keep mutating through its
	// state machine without racing readers.
	snap := n.Clone()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	if _, exists := s.byID[snap.ID]; !exists {
		s.byRecipient[snap.RecipientID] = append(s.byRecipient[snap.RecipientID], snap.ID)
	}
	s.byID[snap.ID] = snap
	return nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status Status, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	n.Status = status
	n.Error = errMsg
	if status == StatusDelivered && n.SentAt == nil {
		now := time.Now()
		n.SentAt = &now
	}
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n.Clone(), nil
}

func (s *MemoryStore) ListByRecipient(ctx context.Context, recipientID string, opts ListOptions) ([]*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byRecipient[recipientID]
	// Newest first.
	filtered := make([]*Notification, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		n := s.byID[ids[i]]
		if opts.Status != "" && n.Status != opts.Status {
			continue
		}
		if opts.OnlyUnread && n.ReadAt != nil {
			continue
		}
		if opts.Since != nil && !n.CreatedAt.After(*opts.Since) {
			continue
		}
		filtered = append(filtered, n)
	}

	if opts.Offset >= len(filtered) {
		return []*Notification{}, nil
	}
	filtered = filtered[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}

	out := make([]*Notification, len(filtered))
	for i, n := range filtered {
		out[i] = n.Clone()
	}
	return out, nil
}

func (s *MemoryStore) MarkRead(ctx context.Context, recipientID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, id := range ids {
		n, ok := s.byID[id]
		if !ok || n.RecipientID != recipientID {
			continue
		}
		if n.ReadAt == nil {
			t := now
			n.ReadAt = &t
		}
	}
	return nil
}
