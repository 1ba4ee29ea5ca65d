// Package metrics registers the Prometheus instruments shared by the services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the platform. Each binary uses the
// subset relevant to it; unused counters simply stay at zero.
type Metrics struct {
	AuthRejections       *prometheus.CounterVec
	EventsPublished      prometheus.Counter
	EventPublishFailures prometheus.Counter
	EventsConsumed       prometheus.Counter
	EventsSkipped        prometheus.Counter
	NotificationsCreated prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		AuthRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskmanager_auth_rejections_total",
			Help: "Requests rejected for missing or invalid identity, by reason.",
		}, []string{"reason"}),
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskmanager_task_events_published_total",
			Help: "Task lifecycle events successfully handed to the broker.",
		}),
		EventPublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskmanager_task_event_publish_failures_total",
			Help: "Task lifecycle events dropped after a transport failure.",
		}),
		EventsConsumed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskmanager_task_events_consumed_total",
			Help: "Task lifecycle events processed by the notification consumer.",
		}),
		EventsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskmanager_task_events_skipped_total",
			Help: "Task lifecycle events skipped after a per-message failure.",
		}),
		NotificationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskmanager_notifications_created_total",
			Help: "Notifications materialized from task events.",
		}),
	}
}

// All increment helpers are nil-safe so tests can run components without a
// registered metrics set.

func (m *Metrics) IncAuthRejection(reason string) {
	if m == nil {
		return
	}
	m.AuthRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncEventsPublished() {
	if m == nil {
		return
	}
	m.EventsPublished.Inc()
}

func (m *Metrics) IncEventPublishFailures() {
	if m == nil {
		return
	}
	m.EventPublishFailures.Inc()
}

func (m *Metrics) IncEventsConsumed() {
	if m == nil {
		return
	}
	m.EventsConsumed.Inc()
}

func (m *Metrics) IncEventsSkipped() {
	if m == nil {
		return
	}
	m.EventsSkipped.Inc()
}

func (m *Metrics) IncNotificationsCreated() {
	if m == nil {
		return
	}
	m.NotificationsCreated.Inc()
}
