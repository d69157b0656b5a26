// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service and internal/session.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
)

// ErrNoCredentials is returned by CredentialStore implementations when a
// credential slot is empty. Absence of a stored session is a normal state.
var ErrNoCredentials = errors.New("no stored credentials")

// SignInResult carries the outcome of a credential sign-in: the normalized
// claims asserted by the provider and the bearer token it issued.
type SignInResult struct {
	Claims domainauth.Claims
	Token  string
}

// IdentityProvider is the hosted identity service boundary. All claim-shape
// normalization happens behind this interface; callers only ever see
// domainauth.Claims.
type IdentityProvider interface {
	// SignIn submits credentials and returns the asserted claims plus the
	// issued bearer token.
	SignIn(ctx context.Context, identifier, secret string) (SignInResult, error)

	// CurrentSession validates a previously issued bearer token and returns
	// the claims it asserts. Implementations return an error for absent,
	// expired, or tampered tokens.
	CurrentSession(ctx context.Context, token string) (domainauth.Claims, error)

	// SignOut terminates the provider-side session for the token.
	// Best effort; callers treat failures as non-fatal.
	SignOut(ctx context.Context, token string) error
}

// RoleMapper derives an application role from provider group memberships.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// SessionStore persists and retrieves server-side session records.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// CredentialStore persists the ambient session's derived profile and bearer
// token under two fixed keys, surviving process restarts. Both entries are
// written together on successful bootstrap/login and cleared together on
// logout.
type CredentialStore interface {
	SaveUser(ctx context.Context, user domainauth.User) error
	LoadUser(ctx context.Context) (domainauth.User, error)
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
