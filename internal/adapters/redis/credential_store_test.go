package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
)

func TestCredentialStore_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCredentialStore(client, "")
	ctx := context.Background()

	user := domainauth.User{
		ID:        "user-9",
		FirstName: "Bob",
		LastName:  "Reyes",
		Email:     "bob.reyes@hrnova.example",
		Role:      domainauth.RoleManager,
	}

	require.NoError(t, store.SaveUser(ctx, user))
	require.NoError(t, store.SaveToken(ctx, "tok-abc"))

	gotUser, err := store.LoadUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, gotUser)

	gotToken, err := store.LoadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", gotToken)
}

func TestCredentialStore_FixedKeys(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCredentialStore(client, "")
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, domainauth.User{ID: "u"}))
	require.NoError(t, store.SaveToken(ctx, "t"))

	assert.Equal(t, int64(1), client.Exists(ctx, "hr_nova_user").Val())
	assert.Equal(t, int64(1), client.Exists(ctx, "hr_nova_token").Val())
}

func TestCredentialStore_EmptySlots(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCredentialStore(client, "")
	ctx := context.Background()

	_, err := store.LoadUser(ctx)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = store.LoadToken(ctx)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialStore_ClearRemovesBoth(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCredentialStore(client, "")
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, domainauth.User{ID: "u"}))
	require.NoError(t, store.SaveToken(ctx, "t"))

	require.NoError(t, store.Clear(ctx))

	_, err := store.LoadUser(ctx)
	assert.ErrorIs(t, err, ErrNoCredentials)
	_, err = store.LoadToken(ctx)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialStore_Prefix(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCredentialStore(client, "staging:")
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, "t"))
	assert.Equal(t, int64(1), client.Exists(ctx, "staging:hr_nova_token").Val())
	assert.Equal(t, int64(0), client.Exists(ctx, "hr_nova_token").Val())
}
