package repository

import (
	"context"

	"papyr/internal/model"
)

// UserRepository is the identity store consumed by the sharing core.
// Lookups that find nothing return sql.ErrNoRows.
type UserRepository interface {
	// Create inserts a new user record and returns the stored snapshot.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID returns a user by its ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by its unique email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
