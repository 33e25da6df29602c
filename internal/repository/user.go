package repository

import (
	"context"

	"social-feed/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create assigns the user ID and timestamps. A taken email yields ErrDuplicate.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// ListByIDs returns the users in the order of ids, skipping unknown ones.
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}
