package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/requestcontext"
)

type NotificationServiceSuite struct {
	suite.Suite
	store *store.InMemoryStore
	svc   *Service
	owner context.Context
	other context.Context
}

func (s *NotificationServiceSuite) SetupTest() {
	s.store = store.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = New(s.store, nil, logger, nil, 0)
	s.owner = requestcontext.WithPrincipal(context.Background(), domain.Principal{
		SubjectID: 42, Email: "member@example.com", Role: domain.RoleMember,
	})
	s.other = requestcontext.WithPrincipal(context.Background(), domain.Principal{
		SubjectID: 7, Email: "other@example.com", Role: domain.RoleMember,
	})
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) deliver(userID int64) *models.Notification {
	created, err := s.svc.Deliver(context.Background(), userID, "Task 'x' has been updated in project 'y'", "TASK_UPDATED")
	s.Require().NoError(err)
	return created
}

func (s *NotificationServiceSuite) TestDeliverCreatesUnread() {
	created := s.deliver(42)
	s.False(created.IsRead)
	s.Equal(int64(42), created.UserID)

	count, err := s.svc.UnreadCount(s.owner)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *NotificationServiceSuite) TestListScopedToPrincipal() {
	s.deliver(42)
	s.deliver(7)

	list, err := s.svc.List(s.owner, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(int64(42), list[0].UserID)
}

func (s *NotificationServiceSuite) TestMarkReadByOwner() {
	created := s.deliver(42)

	updated, err := s.svc.MarkRead(s.owner, created.ID)
	s.Require().NoError(err)
	s.True(updated.IsRead)

	count, err := s.svc.UnreadCount(s.owner)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *NotificationServiceSuite) TestMarkReadByNonOwnerForbidden() {
	created := s.deliver(42)

	_, err := s.svc.MarkRead(s.other, created.ID)
	s.Require().True(domainerrors.Is(err, domainerrors.CodeForbidden))

	// The notification stays unread.
	stored, err := s.store.FindByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.False(stored.IsRead)
}

func (s *NotificationServiceSuite) TestMarkReadUnknownID() {
	_, err := s.svc.MarkRead(s.owner, 404)
	s.Require().True(domainerrors.Is(err, domainerrors.CodeNotFound))
}

func (s *NotificationServiceSuite) TestMarkAllReadCountsOnlyOwn() {
	s.deliver(42)
	s.deliver(42)
	s.deliver(7)

	updated, err := s.svc.MarkAllRead(s.owner)
	s.Require().NoError(err)
	s.Equal(int64(2), updated)

	count, err := s.svc.UnreadCount(s.other)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *NotificationServiceSuite) TestUnauthenticatedContextRejected() {
	_, err := s.svc.List(context.Background(), 0, 0)
	s.Require().True(domainerrors.Is(err, domainerrors.CodeUnauthorized))

	_, err = s.svc.UnreadCount(context.Background())
	s.Require().True(domainerrors.Is(err, domainerrors.CodeUnauthorized))
}
