package repository

import (
	"context"

	"unintend-backend/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByUsernameOrEmail returns the first account matching either key.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	Count(ctx context.Context) (int, error)
}
