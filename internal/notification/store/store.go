// Package store persists notifications. The memory implementation backs unit
// tests and local development; the Postgres implementation backs deployments.
package store

import (
	"context"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/models"
)

// Store is the persistence contract for notifications.
type Store interface {
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	FindByID(ctx context.Context, id int64) (*models.Notification, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}
