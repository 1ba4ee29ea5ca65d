// Package consumer turns task lifecycle events into notifications. Delivery
// from the stream is at-least-once, so a redelivered event may produce a
// duplicate notification; that is accepted here. A poisoned message is logged
// and skipped so it never blocks the rest of the stream.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/service"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/kafka/consumer"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/metrics"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/events"
)

// TaskEventHandler implements the stream handler for task events.
type TaskEventHandler struct {
	notifications *service.Service
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func NewTaskEventHandler(notifications *service.Service, logger *slog.Logger, m *metrics.Metrics) *TaskEventHandler {
	return &TaskEventHandler{notifications: notifications, logger: logger, metrics: m}
}

// Handle writes one notification addressed to the event's assignee. It always
// returns nil: failures are logged and the offset advances, so one bad
// message cannot wedge the partition.
func (h *TaskEventHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var event events.TaskEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.ErrorContext(ctx, "skipping malformed task event",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		h.metrics.IncEventsSkipped()
		return nil
	}
	if event.AssigneeID <= 0 {
		h.logger.WarnContext(ctx, "skipping task event without assignee",
			"event_type", event.EventType,
			"task_id", event.TaskID,
		)
		h.metrics.IncEventsSkipped()
		return nil
	}
	h.metrics.IncEventsConsumed()

	message := notificationMessage(event)
	if _, err := h.notifications.Deliver(ctx, event.AssigneeID, message, string(event.EventType)); err != nil {
		h.logger.ErrorContext(ctx, "notification delivery failed, skipping event",
			"event_type", event.EventType,
			"task_id", event.TaskID,
			"assignee_id", event.AssigneeID,
			"error", err,
		)
		return nil
	}

	h.logger.InfoContext(ctx, "notification created",
		"event_type", event.EventType,
		"task_id", event.TaskID,
		"assignee_id", event.AssigneeID,
	)
	return nil
}

func notificationMessage(event events.TaskEvent) string {
	switch event.EventType {
	case events.TypeTaskCreated:
		return fmt.Sprintf("You have been assigned to task: '%s' in project '%s'", event.TaskTitle, event.ProjectName)
	case events.TypeTaskUpdated:
		return fmt.Sprintf("Task '%s' has been updated in project '%s'", event.TaskTitle, event.ProjectName)
	case events.TypeTaskCompleted:
		return fmt.Sprintf("Task '%s' has been marked as completed in project '%s'", event.TaskTitle, event.ProjectName)
	default:
		return fmt.Sprintf("Task '%s' has new activity in project '%s'", event.TaskTitle, event.ProjectName)
	}
}
