package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.register(t, "Alice", "a@x.com", "secret123")
	require.NotEmpty(t, user.ID)

	result, err := env.auth.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := env.tokens.Verify("Bearer " + result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	env := newTestEnv(t)

	first := env.register(t, "One", "one@x.com", "same-password")
	second := env.register(t, "Two", "two@x.com", "same-password")

	assert.NotEqual(t, "same-password", first.PasswordHash)
	assert.NotEqual(t, "same-password", second.PasswordHash)
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash, "salts must differ")

	stored, err := env.users.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
}

func TestRegisterSeedsCounters(t *testing.T) {
	env := newTestEnv(t)

	for i, email := range []string{"c1@x.com", "c2@x.com", "c3@x.com"} {
		user := env.register(t, "Counter", email, "pw")
		assert.GreaterOrEqual(t, user.ViewedProfile, 0, "user %d", i)
		assert.Less(t, user.ViewedProfile, 10000, "user %d", i)
		assert.GreaterOrEqual(t, user.Impressions, 0, "user %d", i)
		assert.Less(t, user.Impressions, 1000, "user %d", i)
		assert.NotNil(t, user.Friends)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Alice", "a@x.com", "secret123")

	_, err := env.auth.Register(context.Background(), RegisterInput{
		FirstName: "Other",
		LastName:  "Alice",
		Email:     "a@x.com",
		Password:  "different",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterRequiresPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), RegisterInput{FirstName: "No", LastName: "Pass", Email: "np@x.com"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "Alice", "a@x.com", "secret123")

	_, err := env.auth.Login(ctx, "a@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, "ghost@x.com", "secret123")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.auth.Login(ctx, "", "")
	require.ErrorIs(t, err, ErrValidation)
}
