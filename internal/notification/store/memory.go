package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/sentinel"
)

// InMemoryStore is the development and test implementation.
type InMemoryStore struct {
	mu            sync.RWMutex
	nextID        int64
	notifications map[int64]*models.Notification
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID:        1,
		notifications: make(map[int64]*models.Notification),
	}
}

func (s *InMemoryStore) Create(_ context.Context, notification *models.Notification) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *notification
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.notifications[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if notification, ok := s.notifications[id]; ok {
		copied := *notification
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

// ListByUser returns the user's notifications newest first. Ties on the
// timestamp fall back to insertion order so pagination stays stable.
func (s *InMemoryStore) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*models.Notification
	for _, notification := range s.notifications {
		if notification.UserID != userID {
			continue
		}
		copied := *notification
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return []*models.Notification{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *InMemoryStore) UnreadCount(_ context.Context, userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, notification := range s.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) MarkRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	notification.IsRead = true
	return nil
}

func (s *InMemoryStore) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, notification := range s.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			updated++
		}
	}
	return updated, nil
}
