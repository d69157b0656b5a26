// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
	_ ports.CredentialStore  = (*MemoryCredentialStore)(nil)
)

// MockIdentityProvider simulates an IdP for tests with deterministic claims.
type MockIdentityProvider struct {
	SignInFunc         func(ctx context.Context, identifier, secret string) (ports.SignInResult, error)
	CurrentSessionFunc func(ctx context.Context, token string) (domainauth.Claims, error)
	SignOutFunc        func(ctx context.Context, token string) error

	// DefaultClaims is returned when no function overrides are set.
	DefaultClaims domainauth.Claims
	// DefaultToken is the token returned by SignIn by default.
	DefaultToken string

	mu           sync.Mutex
	signInCalls  int
	signOutCalls int
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		DefaultClaims: domainauth.Claims{
			Subject:    "mock-user-1",
			Email:      "mock.user@hrnova.example",
			GivenName:  "Mock",
			FamilyName: "User",
			Groups:     []string{"Everyone"},
			ExpiresAt:  time.Now().Add(time.Hour),
		},
		DefaultToken: "mock-token",
	}
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, identifier, secret string) (ports.SignInResult, error) {
	m.mu.Lock()
	m.signInCalls++
	m.mu.Unlock()

	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, identifier, secret)
	}
	claims := m.DefaultClaims
	claims.ExpiresAt = time.Now().Add(time.Hour)
	return ports.SignInResult{Claims: claims, Token: m.DefaultToken}, nil
}

func (m *MockIdentityProvider) CurrentSession(ctx context.Context, token string) (domainauth.Claims, error) {
	if m.CurrentSessionFunc != nil {
		return m.CurrentSessionFunc(ctx, token)
	}
	if token == "" {
		return domainauth.Claims{}, errors.New("no token")
	}
	claims := m.DefaultClaims
	claims.ExpiresAt = time.Now().Add(time.Hour)
	return claims, nil
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, token string) error {
	m.mu.Lock()
	m.signOutCalls++
	m.mu.Unlock()

	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, token)
	}
	return nil
}

// SignInCalls reports how many times SignIn was invoked.
func (m *MockIdentityProvider) SignInCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signInCalls
}

// SignOutCalls reports how many times SignOut was invoked.
func (m *MockIdentityProvider) SignOutCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signOutCalls
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// MemoryCredentialStore is an in-memory credential store for unit tests.
// FailSave and FailLoad force errors to exercise failure paths.
type MemoryCredentialStore struct {
	mu       sync.Mutex
	user     *domainauth.User
	token    *string
	FailSave bool
	FailLoad bool
}

// NewMemoryCredentialStore creates a new in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

// ErrNoCredentials aliases the ports sentinel for an empty credential slot.
var ErrNoCredentials = ports.ErrNoCredentials

func (m *MemoryCredentialStore) SaveUser(_ context.Context, user domainauth.User) error {
	if m.FailSave {
		return errors.New("save failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &user
	return nil
}

func (m *MemoryCredentialStore) LoadUser(_ context.Context) (domainauth.User, error) {
	if m.FailLoad {
		return domainauth.User{}, errors.New("load failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return domainauth.User{}, ErrNoCredentials
	}
	return *m.user, nil
}

func (m *MemoryCredentialStore) SaveToken(_ context.Context, token string) error {
	if m.FailSave {
		return errors.New("save failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = &token
	return nil
}

func (m *MemoryCredentialStore) LoadToken(_ context.Context) (string, error) {
	if m.FailLoad {
		return "", errors.New("load failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return "", ErrNoCredentials
	}
	return *m.token, nil
}

func (m *MemoryCredentialStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.token = nil
	return nil
}

// HasUser reports whether a user is currently stored.
func (m *MemoryCredentialStore) HasUser() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// HasToken reports whether a token is currently stored.
func (m *MemoryCredentialStore) HasToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}
