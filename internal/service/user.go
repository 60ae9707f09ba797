package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"papyr/internal/model"
	"papyr/internal/repository"
	"papyr/internal/repository/postgres"
)

// UserService exposes the identity store operations the boundary needs:
// registration and the lookups consumed by collaborator management.
type UserService interface {
	// Register creates a user with a unique email.
	Register(ctx context.Context, email, name string) (*model.User, error)

	// GetByID returns a user by its ID.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByEmail returns a user by its unique email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
	now   func() time.Time
}

// NewUserService constructs a UserService over the given repository.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users, now: time.Now}
}

func (s *userService) Register(ctx context.Context, email, name string) (*model.User, error) {
	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return stored, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
