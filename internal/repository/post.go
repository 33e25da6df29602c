package repository

import (
	"context"

	"social-feed/internal/domain"
)

// PostRepository exposes persistence operations for Post aggregates.
// List and ListByUser return posts in insertion order.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) error
	List(ctx context.Context) ([]domain.Post, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	// ToggleLike atomically adds userID to the post's likes, or removes it
	// when already present, and returns the updated post.
	ToggleLike(ctx context.Context, postID, userID string) (*domain.Post, error)
}
