// Package users holds the account store: the Repository contract consumed
// by the user service and its PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/envmon/internal/server/models"
)

// Repository persists user accounts keyed by (normalized) email.
//
// Create must enforce email uniqueness itself and report a clash as
// common.ErrorAlreadyExists; a prior FindByEmail is never authoritative.
// FindByEmail and MarkVerified return common.ErrorNotFound for unknown emails.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerified(ctx context.Context, email string) error
}
