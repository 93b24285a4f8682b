package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	notifications map[uuid.UUID]*Notification
}

func newMemStore() *memStore {
	return &memStore{notifications: make(map[uuid.UUID]*Notification)}
}

func (s *memStore) add(userID uuid.UUID, read bool) *Notification {
	n := &Notification{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   KindSubmitted,
		Title:  "Complaint Submitted",
		IsRead: read,
	}
	s.notifications[n.ID] = n
	return n
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	n, ok := s.notifications[id]
	if !ok {
		return nil, nil
	}
	copied := *n
	return &copied, nil
}

func (s *memStore) ListByRecipient(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	var out []*Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memStore) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	if n, ok := s.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (s *memStore) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (s *memStore) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func TestListByRecipient(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	userID := uuid.New()

	store.add(userID, false)
	store.add(userID, false)
	store.add(userID, true)
	store.add(uuid.New(), false)

	list, unread, err := svc.ListByRecipient(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, 2, unread)
}

func TestMarkAsRead(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	userID := uuid.New()
	n := store.add(userID, false)

	err := svc.MarkAsRead(context.Background(), n.ID, userID)
	require.NoError(t, err)

	stored, _ := store.GetByID(context.Background(), n.ID)
	assert.True(t, stored.IsRead)
}

func TestMarkAsReadNotFound(t *testing.T) {
	svc := NewService(newMemStore())

	err := svc.MarkAsRead(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestMarkAsReadWrongRecipient(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	n := store.add(uuid.New(), false)

	err := svc.MarkAsRead(context.Background(), n.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotRecipient)

	stored, _ := store.GetByID(context.Background(), n.ID)
	assert.False(t, stored.IsRead)
}

func TestMarkAllAsRead(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	userID := uuid.New()
	other := store.add(uuid.New(), false)

	store.add(userID, false)
	store.add(userID, false)

	err := svc.MarkAllAsRead(context.Background(), userID)
	require.NoError(t, err)

	count, err := svc.GetUnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	stored, _ := store.GetByID(context.Background(), other.ID)
	assert.False(t, stored.IsRead)
}
