package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"social-feed/internal/domain"
	"social-feed/internal/repository"
	"social-feed/internal/repository/sqlite"
)

const testSecret = "social-feed-test-secret"

type testEnv struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	tokens *TokenIssuer
	auth   AuthService
	feed   PostService
	people UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "social.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	posts := sqlite.NewPostRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, posts.Init(ctx))

	tokens := NewTokenIssuer(testSecret, 0)
	return &testEnv{
		users:  users,
		posts:  posts,
		tokens: tokens,
		auth:   NewAuthService(users, tokens, bcrypt.MinCost),
		feed:   NewPostService(users, posts),
		people: NewUserService(users),
	}
}

func (e *testEnv) register(t *testing.T, first, email, password string) *domain.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		FirstName: first,
		LastName:  "Tester",
		Email:     email,
		Password:  password,
		Location:  "Lisbon",
	})
	require.NoError(t, err)
	return user
}
