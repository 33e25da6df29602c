package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"social-feed/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "social.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestRepos(t *testing.T) (*UserRepository, *PostRepository) {
	t.Helper()
	db := openTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db).(*UserRepository)
	posts := NewPostRepository(db).(*PostRepository)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, posts.Init(ctx))
	return users, posts
}

func testUser(email string) *domain.User {
	return &domain.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: "$2a$04$notarealhash",
		Location:     "London",
		Occupation:   "Mathematician",
	}
}
