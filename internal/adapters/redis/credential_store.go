package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/ports"
	"github.com/redis/go-redis/v9"
)

// Two fixed keys hold the ambient session's profile and bearer token.
// Both are written on login and cleared together on logout.
const (
	userKey  = "hr_nova_user"
	tokenKey = "hr_nova_token"
)

// ErrNoCredentials aliases the ports sentinel for an empty credential slot.
var ErrNoCredentials = ports.ErrNoCredentials

// CredentialStore persists the ambient session across process restarts.
type CredentialStore struct {
	client redis.UniversalClient
	prefix string
}

// NewCredentialStore creates a credential store. prefix namespaces the two
// fixed keys (useful when several environments share one Redis).
func NewCredentialStore(client redis.UniversalClient, prefix string) *CredentialStore {
	return &CredentialStore{client: client, prefix: prefix}
}

func (s *CredentialStore) SaveUser(ctx context.Context, user domainauth.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.client.Set(ctx, s.prefix+userKey, data, 0).Err()
}

func (s *CredentialStore) LoadUser(ctx context.Context) (domainauth.User, error) {
	data, err := s.client.Get(ctx, s.prefix+userKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.User{}, ErrNoCredentials
		}
		return domainauth.User{}, fmt.Errorf("redis get: %w", err)
	}

	var user domainauth.User
	if unmarshalErr := json.Unmarshal([]byte(data), &user); unmarshalErr != nil {
		return domainauth.User{}, fmt.Errorf("unmarshal user: %w", unmarshalErr)
	}
	return user, nil
}

func (s *CredentialStore) SaveToken(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.prefix+tokenKey, token, 0).Err()
}

func (s *CredentialStore) LoadToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.prefix+tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoCredentials
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return token, nil
}

// Clear removes both credential keys in a single round trip.
func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.prefix+userKey, s.prefix+tokenKey).Err()
}
