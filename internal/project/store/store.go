// Package store persists projects and tasks.
package store

import (
	"context"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/models"
)

// Store is the persistence boundary for the project service. Implementations
// return sentinel.ErrNotFound for missing entities.
type Store interface {
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	FindProject(ctx context.Context, id int64) (*models.Project, error)

	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	FindTask(ctx context.Context, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ListTasksByAssignee(ctx context.Context, assigneeID int64, status models.Status) ([]*models.Task, error)
}
