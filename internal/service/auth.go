package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hrnova/ui-api/internal/core"
	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/domain/model"
	"github.com/hrnova/ui-api/internal/ports"
)

// ErrInvalidCredentials is returned for every sign-in failure regardless of
// cause. Callers must not learn whether the identifier or the secret was
// wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrSessionExpired is returned when a session record exists but is past its
// expiry.
var ErrSessionExpired = errors.New("session expired")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Audit    core.AuditRepository // Optional: login/logout audit trail
	Logger   *slog.Logger         // Optional: structured logger
}

// AuthService orchestrates credential sign-in, role mapping, and session
// persistence.
type AuthService struct {
	provider ports.IdentityProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	audit    core.AuditRepository
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Provider == nil {
		return nil, errors.New("IdentityProvider is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("SessionStore is required")
	}
	if opts.Roles == nil {
		return nil, errors.New("RoleMapper is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		audit:    opts.Audit,
		logger:   logger.With("component", "auth_service"),
	}, nil
}

// MustNewAuthService constructs a new AuthService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewAuthService(opts AuthServiceOptions) *AuthService {
	svc, err := NewAuthService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// PasswordLogin signs in with credentials, maps provider groups to a role,
// and persists a server-side session.
func (s *AuthService) PasswordLogin(ctx context.Context, identifier, secret string) (*domainauth.Session, error) {
	if identifier == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}

	result, err := s.provider.SignIn(ctx, identifier, secret)
	if err != nil {
		s.logger.WarnContext(ctx, "sign in rejected", "identifier", identifier, "err", err)
		s.recordAudit(ctx, identifier, "", "session.login", model.AuditStatusFailed)
		return nil, ErrInvalidCredentials
	}

	role := s.roles.Map(result.Claims.Groups)
	user, ok := domainauth.NewUser(result.Claims, role)
	if !ok {
		s.recordAudit(ctx, identifier, "", "session.login", model.AuditStatusFailed)
		return nil, ErrInvalidCredentials
	}

	expiresAt := result.Claims.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(8 * time.Hour)
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		User:      user,
		Token:     result.Token,
		ExpiresAt: expiresAt,
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.recordAudit(ctx, user.Email, user.ID, "session.login", model.AuditStatusSuccess)
	return &session, nil
}

// GetSession retrieves a session by ID, removing it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Logout removes the session and revokes the provider-side token. Provider
// revocation is best effort; the local session is deleted either way.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err == nil && session.Token != "" {
		if signOutErr := s.provider.SignOut(ctx, session.Token); signOutErr != nil {
			s.logger.WarnContext(ctx, "provider sign out failed", "err", signOutErr)
		}
	}

	if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
		return fmt.Errorf("delete session: %w", deleteErr)
	}

	if err == nil {
		s.recordAudit(ctx, session.User.Email, session.User.ID, "session.logout", model.AuditStatusSuccess)
	}
	return nil
}

func (s *AuthService) recordAudit(ctx context.Context, actor, actorID, action string, status model.AuditStatus) {
	if s.audit == nil {
		return
	}
	_, err := s.audit.Append(ctx, &model.RecordAuditRequest{
		Actor:      actor,
		ActorID:    actorID,
		Action:     action,
		EntityType: model.AuditEntitySession,
		Status:     status,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit append failed", "action", action, "err", err)
	}
}
