package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/metrics"
)

// Sender is the transport the producer publishes through. Implemented by the
// platform Kafka producer; tests substitute a recorder.
type Sender interface {
	Send(ctx context.Context, topic string, key, value []byte, done func(error))
}

// Producer publishes task lifecycle events after a mutation has committed.
//
// Publish never blocks the caller on the broker and never returns an error to
// the mutation path: a transport failure is logged, counted, and dropped.
// Notifications are best-effort; the task change itself must stand.
type Producer struct {
	sender  Sender
	topic   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewProducer(sender Sender, topic string, logger *slog.Logger, m *metrics.Metrics) *Producer {
	return &Producer{sender: sender, topic: topic, logger: logger, metrics: m}
}

// Publish hands the event to the broker, keyed by task ID for per-task
// ordering. The delivery result arrives on the completion callback.
func (p *Producer) Publish(ctx context.Context, event TaskEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.metrics.IncEventPublishFailures()
		p.logger.ErrorContext(ctx, "marshal task event",
			"event_type", string(event.EventType),
			"task_id", event.TaskID,
			"error", err,
		)
		return
	}

	key := []byte(strconv.FormatInt(event.TaskID, 10))
	p.sender.Send(ctx, p.topic, key, payload, func(err error) {
		if err != nil {
			p.metrics.IncEventPublishFailures()
			p.logger.Error("task event publish failed, dropping event",
				"event_type", string(event.EventType),
				"task_id", event.TaskID,
				"error", err,
			)
			return
		}
		p.metrics.IncEventsPublished()
		p.logger.Debug("task event published",
			"event_type", string(event.EventType),
			"task_id", event.TaskID,
		)
	})
}
