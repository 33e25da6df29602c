package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"social-feed/internal/domain"
	"social-feed/internal/repository"
)

// CreatePostInput carries the fields accepted when publishing a post.
type CreatePostInput struct {
	UserID      string
	Description string
	PicturePath string
}

// PostService coordinates feed operations backed by repositories.
type PostService interface {
	// CreatePost stores a post and returns the whole feed.
	CreatePost(ctx context.Context, in CreatePostInput) ([]domain.Post, error)
	GetFeedPosts(ctx context.Context) ([]domain.Post, error)
	GetUserPosts(ctx context.Context, userID string) ([]domain.Post, error)
	LikePost(ctx context.Context, postID, userID string) (*domain.Post, error)
}

type postService struct {
	users repository.UserRepository
	posts repository.PostRepository
}

func NewPostService(users repository.UserRepository, posts repository.PostRepository) PostService {
	return &postService{
		users: users,
		posts: posts,
	}
}

func (s *postService) CreatePost(ctx context.Context, in CreatePostInput) ([]domain.Post, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ValidationError("userId is required")
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistenceError("find author", err)
	}

	post := &domain.Post{
		UserID:          author.ID,
		FirstName:       author.FirstName,
		LastName:        author.LastName,
		Location:        author.Location,
		UserPicturePath: author.PicturePath,
		Description:     in.Description,
		PicturePath:     in.PicturePath,
		Likes:           map[string]bool{},
		Comments:        []string{},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, persistenceError("create post", err)
	}

	feed, err := s.GetFeedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedReload, err)
	}
	return feed, nil
}

func (s *postService) GetFeedPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, persistenceError("list posts", err)
	}
	return posts, nil
}

func (s *postService) GetUserPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, persistenceError("list user posts", err)
	}
	return posts, nil
}

func (s *postService) LikePost(ctx context.Context, postID, userID string) (*domain.Post, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ValidationError("userId is required")
	}
	// user IDs double as field names in document stores
	if strings.HasPrefix(userID, "$") || strings.Contains(userID, ".") {
		return nil, ValidationError("userId %q cannot be used", userID)
	}

	post, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, repository.ErrInvalidID):
			return nil, ValidationError("userId %q cannot be used", userID)
		}
		return nil, persistenceError("toggle like", err)
	}
	return post, nil
}
