// Package service owns the notification inbox. Reads and read-marks are
// scoped to the requesting principal; delivery runs on the consumer path with
// no principal and a bounded store-write timeout.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/cache"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/metrics"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/sentinel"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/requestcontext"
)

const defaultWriteTimeout = 5 * time.Second

// Service mediates between the HTTP API, the event consumer, and the store.
type Service struct {
	store        store.Store
	cache        *cache.UnreadCache
	logger       *slog.Logger
	metrics      *metrics.Metrics
	writeTimeout time.Duration
}

func New(store store.Store, cache *cache.UnreadCache, logger *slog.Logger, m *metrics.Metrics, writeTimeout time.Duration) *Service {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Service{
		store:        store,
		cache:        cache,
		logger:       logger,
		metrics:      m,
		writeTimeout: writeTimeout,
	}
}

// Deliver persists a notification on behalf of the event consumer. The write
// is bounded so a slow store cannot stall the consume loop indefinitely.
func (s *Service) Deliver(ctx context.Context, userID int64, message, eventType string) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	created, err := s.store.Create(ctx, &models.Notification{
		UserID:  userID,
		Message: message,
		Type:    eventType,
	})
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "deliver notification", err)
	}

	s.cache.Invalidate(ctx, userID)
	s.metrics.IncNotificationsCreated()
	return created, nil
}

// List returns the principal's notifications, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Notification, error) {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeUnauthorized, "unauthenticated")
	}

	notifications, err := s.store.ListByUser(ctx, principal.SubjectID, limit, offset)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "list notifications", err)
	}
	return notifications, nil
}

// UnreadCount returns the principal's unread badge count, served from the
// cache when warm.
func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		return 0, domainerrors.New(domainerrors.CodeUnauthorized, "unauthenticated")
	}

	if count, hit := s.cache.Get(ctx, principal.SubjectID); hit {
		return count, nil
	}

	count, err := s.store.UnreadCount(ctx, principal.SubjectID)
	if err != nil {
		return 0, domainerrors.Wrap(domainerrors.CodeInternal, "count unread notifications", err)
	}
	s.cache.Set(ctx, principal.SubjectID, count)
	return count, nil
}

// MarkRead marks one of the principal's notifications as read. Marking
// another user's notification is forbidden and leaves it untouched.
func (s *Service) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeUnauthorized, "unauthenticated")
	}

	notification, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "notification not found")
		}
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "find notification", err)
	}
	if notification.UserID != principal.SubjectID && principal.Role != domain.RoleAdmin {
		return nil, domainerrors.New(domainerrors.CodeForbidden, "notification belongs to another user")
	}

	if err := s.store.MarkRead(ctx, id); err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "mark notification read", err)
	}
	s.cache.Invalidate(ctx, notification.UserID)

	notification.IsRead = true
	return notification, nil
}

// MarkAllRead marks every unread notification of the principal as read and
// reports how many it touched.
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	principal, ok := requestcontext.Principal(ctx)
	if !ok {
		return 0, domainerrors.New(domainerrors.CodeUnauthorized, "unauthenticated")
	}

	updated, err := s.store.MarkAllRead(ctx, principal.SubjectID)
	if err != nil {
		return 0, domainerrors.Wrap(domainerrors.CodeInternal, "mark all notifications read", err)
	}
	s.cache.Invalidate(ctx, principal.SubjectID)
	return updated, nil
}
