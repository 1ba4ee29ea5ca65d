package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/service"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/config"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/trust"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/testutil"
)

type NotificationHandlerSuite struct {
	suite.Suite
	store  *store.InMemoryStore
	router chi.Router
}

func (s *NotificationHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = store.NewInMemoryStore()
	notifications := service.New(s.store, nil, logger, nil, 0)

	tokens := token.NewService("notification-handler-test-secret", time.Hour)
	trustFilter := trust.NewFilter(config.TrustModeHeaders, tokens, logger, nil)

	s.router = chi.NewRouter()
	New(notifications).Register(s.router, trustFilter)
}

func TestNotificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerSuite))
}

func (s *NotificationHandlerSuite) asUser(req *http.Request, userID int64) *http.Request {
	req.Header.Set(domain.HeaderUserID, strconv.FormatInt(userID, 10))
	req.Header.Set(domain.HeaderUserRole, string(domain.RoleMember))
	req.Header.Set(domain.HeaderUserEmail, fmt.Sprintf("user%d@example.com", userID))
	return req
}

func (s *NotificationHandlerSuite) seed(userID int64) *models.Notification {
	created, err := s.store.Create(context.Background(), &models.Notification{
		UserID:  userID,
		Message: "Task 'x' has been updated in project 'y'",
		Type:    "TASK_UPDATED",
	})
	s.Require().NoError(err)
	return created
}

func (s *NotificationHandlerSuite) TestListRequiresIdentity() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/api/notifications")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
}

func (s *NotificationHandlerSuite) TestListReturnsOwnNotifications() {
	s.seed(42)
	s.seed(7)

	req := s.asUser(testutil.NewRequest(s.T(), http.MethodGet, "/api/notifications"), 42)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	list := testutil.UnmarshalResponse[[]models.Notification](s.T(), rr)
	s.Require().Len(*list, 1)
	s.Equal(int64(42), (*list)[0].UserID)
}

func (s *NotificationHandlerSuite) TestUnreadCount() {
	s.seed(42)
	s.seed(42)

	req := s.asUser(testutil.NewRequest(s.T(), http.MethodGet, "/api/notifications/unread-count"), 42)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "count", float64(2))
}

func (s *NotificationHandlerSuite) TestMarkReadByOwner() {
	created := s.seed(42)

	path := fmt.Sprintf("/api/notifications/%d/read", created.ID)
	req := s.asUser(testutil.NewRequest(s.T(), http.MethodPut, path), 42)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	updated := testutil.UnmarshalResponse[models.Notification](s.T(), rr)
	s.True(updated.IsRead)
}

func (s *NotificationHandlerSuite) TestMarkReadByNonOwnerForbidden() {
	created := s.seed(42)

	path := fmt.Sprintf("/api/notifications/%d/read", created.ID)
	req := s.asUser(testutil.NewRequest(s.T(), http.MethodPut, path), 7)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")

	stored, err := s.store.FindByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.False(stored.IsRead)
}

func (s *NotificationHandlerSuite) TestMarkAllRead() {
	s.seed(42)
	s.seed(42)
	s.seed(7)

	req := s.asUser(testutil.NewRequest(s.T(), http.MethodPut, "/api/notifications/read-all"), 42)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "updated", float64(2))
}
