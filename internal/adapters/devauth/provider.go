// Package devauth provides a config-driven identity provider for local
// development. Credentials come from env, tokens are locally minted JWTs.
package devauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/ports"
)

// ErrInvalidCredentials is returned for unknown identifiers and wrong secrets
// alike; callers must not be able to distinguish the two.
var ErrInvalidCredentials = errors.New("dev auth: invalid credentials")

// Config controls the dev auth provider behavior.
type Config struct {
	// Users holds identifier:secret:group entries. The group segment may be
	// empty; such users fall through to the default role.
	Users []string

	// SigningSecret signs locally minted tokens. Required.
	SigningSecret string

	// SessionDuration bounds token lifetime. Default 8h when zero.
	SessionDuration time.Duration
}

type devUser struct {
	identifier string
	secret     string
	groups     []string
}

// Provider implements ports.IdentityProvider for local development.
// SignOut revokes the token locally so a revoked token fails CurrentSession.
type Provider struct {
	users           map[string]devUser
	signingSecret   []byte
	sessionDuration time.Duration

	mu      sync.Mutex
	revoked map[string]struct{}
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.SigningSecret == "" {
		return nil, errors.New("dev auth: signing secret is required")
	}
	if len(cfg.Users) == 0 {
		return nil, errors.New("dev auth: at least one user is required")
	}

	users := make(map[string]devUser, len(cfg.Users))
	for _, entry := range cfg.Users {
		u, err := parseUserEntry(entry)
		if err != nil {
			return nil, err
		}
		users[u.identifier] = u
	}

	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}

	return &Provider{
		users:           users,
		signingSecret:   []byte(cfg.SigningSecret),
		sessionDuration: dur,
		revoked:         make(map[string]struct{}),
	}, nil
}

// parseUserEntry parses an identifier:secret:group entry. The group segment
// is optional and may list multiple groups separated by commas.
func parseUserEntry(entry string) (devUser, error) {
	parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return devUser{}, fmt.Errorf("dev auth: malformed user entry %q (want identifier:secret:group)", entry)
	}
	u := devUser{identifier: parts[0], secret: parts[1]}
	if len(parts) == 3 && parts[2] != "" {
		for _, g := range strings.Split(parts[2], ",") {
			if g = strings.TrimSpace(g); g != "" {
				u.groups = append(u.groups, g)
			}
		}
	}
	return u, nil
}

// SignIn checks the credentials against configured users and mints a token.
func (p *Provider) SignIn(_ context.Context, identifier, secret string) (ports.SignInResult, error) {
	u, ok := p.users[identifier]
	if !ok {
		// Burn comparable time for unknown identifiers.
		subtle.ConstantTimeCompare([]byte(secret), []byte(secret))
		return ports.SignInResult{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(u.secret), []byte(secret)) != 1 {
		return ports.SignInResult{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(p.sessionDuration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        u.identifier,
		"email":      u.identifier,
		"given_name": displayName(u.identifier),
		"groups":     u.groups,
		"iat":        time.Now().Unix(),
		"exp":        expiresAt.Unix(),
	})
	signed, err := token.SignedString(p.signingSecret)
	if err != nil {
		return ports.SignInResult{}, fmt.Errorf("dev auth: sign token: %w", err)
	}

	return ports.SignInResult{
		Claims: domainauth.Claims{
			Subject:   u.identifier,
			Email:     u.identifier,
			GivenName: displayName(u.identifier),
			Groups:    append([]string(nil), u.groups...),
			ExpiresAt: expiresAt,
		},
		Token: signed,
	}, nil
}

// CurrentSession validates a minted token and rebuilds the claims.
func (p *Provider) CurrentSession(_ context.Context, token string) (domainauth.Claims, error) {
	if token == "" {
		return domainauth.Claims{}, errors.New("dev auth: token is required")
	}

	p.mu.Lock()
	_, revoked := p.revoked[token]
	p.mu.Unlock()
	if revoked {
		return domainauth.Claims{}, errors.New("dev auth: token revoked")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.signingSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domainauth.Claims{}, fmt.Errorf("dev auth: parse token: %w", err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domainauth.Claims{}, errors.New("dev auth: unexpected claims shape")
	}

	c := domainauth.Claims{
		Subject:   stringClaim(mc, "sub"),
		Email:     stringClaim(mc, "email"),
		GivenName: stringClaim(mc, "given_name"),
		Groups:    stringSliceClaim(mc, "groups"),
	}
	if exp, expErr := mc.GetExpirationTime(); expErr == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// SignOut revokes the token locally.
func (p *Provider) SignOut(_ context.Context, token string) error {
	if token == "" {
		return nil
	}
	p.mu.Lock()
	p.revoked[token] = struct{}{}
	p.mu.Unlock()
	return nil
}

// displayName derives a human-ish given name from an email-style identifier.
func displayName(identifier string) string {
	local, _, found := strings.Cut(identifier, "@")
	if !found || local == "" {
		return identifier
	}
	return local
}

func stringClaim(mc jwt.MapClaims, key string) string {
	if v, ok := mc[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceClaim(mc jwt.MapClaims, key string) []string {
	raw, ok := mc[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, sok := v.(string); sok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
