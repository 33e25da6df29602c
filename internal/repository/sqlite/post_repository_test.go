package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-feed/internal/domain"
	"social-feed/internal/repository"
)

func createTestPost(t *testing.T, posts *PostRepository, userID, description string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		UserID:      userID,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Description: description,
	}
	require.NoError(t, posts.Create(context.Background(), post))
	return post
}

func storedPost(t *testing.T, posts *PostRepository, id string) domain.Post {
	t.Helper()
	all, err := posts.List(context.Background())
	require.NoError(t, err)
	for _, post := range all {
		if post.ID == id {
			return post
		}
	}
	t.Fatalf("post %s not stored", id)
	return domain.Post{}
}

func TestPostRepositoryListKeepsInsertionOrder(t *testing.T) {
	_, posts := newTestRepos(t)
	ctx := context.Background()

	first := createTestPost(t, posts, "u1", "first")
	second := createTestPost(t, posts, "u2", "second")
	third := createTestPost(t, posts, "u1", "third")

	all, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Empty(t, all[0].Likes)
	assert.NotNil(t, all[0].Comments)

	mine, err := posts.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, third.ID, mine[1].ID)
}

func TestPostRepositoryToggleLike(t *testing.T) {
	_, posts := newTestRepos(t)
	ctx := context.Background()
	post := createTestPost(t, posts, "author", "hello")

	liked, err := posts.ToggleLike(ctx, post.ID, "fan")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"fan": true}, liked.Likes)

	unliked, err := posts.ToggleLike(ctx, post.ID, "fan")
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	assert.Empty(t, storedPost(t, posts, post.ID).Likes)
}

func TestPostRepositoryToggleLikeMissingPost(t *testing.T) {
	_, posts := newTestRepos(t)

	_, err := posts.ToggleLike(context.Background(), "missing", "fan")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostRepositoryConcurrentLikesAllLand(t *testing.T) {
	_, posts := newTestRepos(t)
	ctx := context.Background()
	post := createTestPost(t, posts, "author", "popular")

	const fans = 16
	var wg sync.WaitGroup
	errs := make(chan error, fans)
	for i := 0; i < fans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := posts.ToggleLike(ctx, post.ID, fmt.Sprintf("fan-%d", i)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Len(t, storedPost(t, posts, post.ID).Likes, fans)
}
