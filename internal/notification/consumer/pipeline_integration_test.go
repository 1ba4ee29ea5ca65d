//go:build integration

package consumer_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	notifconsumer "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/consumer"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/service"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/kafka"
	platformconsumer "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/kafka/consumer"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/kafka/producer"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/events"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/testutil/containers"
)

const (
	testTopic = "task-events"
	testGroup = "notification-service-group"
)

// PipelineSuite drives a real broker end to end: publish a task event, run
// the consumer group, and observe the resulting notification.
type PipelineSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	logger   *slog.Logger
}

func TestPipelineSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupSuite() {
	s.redpanda = containers.NewRedpandaContainer(s.T())
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	err := kafka.EnsureTopic(context.Background(), []string{s.redpanda.Broker}, testTopic, 1)
	s.Require().NoError(err)
}

func (s *PipelineSuite) TestPublishedEventBecomesNotification() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sender, err := producer.New([]string{s.redpanda.Broker})
	s.Require().NoError(err)
	defer sender.Close()

	notificationStore := store.NewInMemoryStore()
	notifications := service.New(notificationStore, nil, s.logger, nil, 0)
	handler := notifconsumer.NewTaskEventHandler(notifications, s.logger, nil)

	consumer, err := platformconsumer.New([]string{s.redpanda.Broker}, testGroup, testTopic, handler, s.logger)
	s.Require().NoError(err)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(consumerCtx)
	}()

	publisher := events.NewProducer(sender, testTopic, s.logger, nil)
	publisher.Publish(ctx, events.TaskEvent{
		EventType:    events.TypeTaskCreated,
		TaskID:       7,
		TaskTitle:    "Ship release notes",
		AssigneeID:   42,
		AssigneeName: "Jane Doe",
		ProjectID:    1,
		ProjectName:  "Launch",
		Timestamp:    time.Now(),
	})

	s.Require().Eventually(func() bool {
		list, err := notificationStore.ListByUser(ctx, 42, 0, 0)
		return err == nil && len(list) == 1
	}, 30*time.Second, 200*time.Millisecond, "expected the event to be consumed into a notification")

	list, err := notificationStore.ListByUser(ctx, 42, 0, 0)
	s.Require().NoError(err)
	s.Contains(list[0].Message, "Ship release notes")
	s.Contains(list[0].Message, "Launch")

	stopConsumer()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		s.Fail("consumer did not stop")
	}
}
