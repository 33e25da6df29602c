package service

import (
	"context"
	"errors"

	"social-feed/internal/domain"
	"social-feed/internal/repository"
)

// UserService exposes read-only profile lookups.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserFriends(ctx context.Context, id string) ([]domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistenceError("find user", err)
	}
	return user, nil
}

// GetUserFriends resolves the user's friend list in stored order. Friends
// whose records no longer exist are skipped.
func (s *userService) GetUserFriends(ctx context.Context, id string) ([]domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	friends, err := s.users.ListByIDs(ctx, user.Friends)
	if err != nil {
		return nil, persistenceError("list friends", err)
	}
	return friends, nil
}
