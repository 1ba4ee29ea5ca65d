// Package store persists user accounts.
package store

import (
	"context"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/user/models"
)

// Store is the persistence boundary for users. Implementations return
// sentinel.ErrNotFound for missing users and sentinel.ErrConflict for a
// duplicate email on create.
type Store interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
