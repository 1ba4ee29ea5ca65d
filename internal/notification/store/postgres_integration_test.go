//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/sentinel"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
	s.Require().NoError(s.store.Schema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "notifications"))
}

func (s *PostgresStoreSuite) seed(userID int64, n int) []*models.Notification {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
	out := make([]*models.Notification, 0, n)
	for i := 0; i < n; i++ {
		created, err := s.store.Create(ctx, &models.Notification{
			UserID:    userID,
			Message:   fmt.Sprintf("notification %d", i),
			Type:      "TASK_CREATED",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(err)
		out = append(out, created)
	}
	return out
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	created := s.seed(1, 1)

	found, err := s.store.FindByID(context.Background(), created[0].ID)
	s.Require().NoError(err)
	s.Equal(created[0].Message, found.Message)
	s.Equal(int64(1), found.UserID)
	s.False(found.IsRead)
}

func (s *PostgresStoreSuite) TestListByUserNewestFirstWithPagination() {
	s.seed(1, 5)
	s.seed(2, 1)

	ctx := context.Background()

	list, err := s.store.ListByUser(ctx, 1, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 5)
	s.Equal("notification 4", list[0].Message)

	page, err := s.store.ListByUser(ctx, 1, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("notification 2", page[0].Message)
}

func (s *PostgresStoreSuite) TestUnreadCountAndMarkRead() {
	created := s.seed(1, 3)
	ctx := context.Background()

	count, err := s.store.UnreadCount(ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(3), count)

	s.Require().NoError(s.store.MarkRead(ctx, created[0].ID))

	count, err = s.store.UnreadCount(ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *PostgresStoreSuite) TestMarkReadUnknownID() {
	err := s.store.MarkRead(context.Background(), 404)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestMarkAllRead() {
	s.seed(1, 3)
	s.seed(2, 2)
	ctx := context.Background()

	updated, err := s.store.MarkAllRead(ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(3), updated)

	updated, err = s.store.MarkAllRead(ctx, 1)
	s.Require().NoError(err)
	s.Zero(updated)

	count, err := s.store.UnreadCount(ctx, 2)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}
