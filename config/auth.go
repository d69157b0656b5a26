package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOIDC uses the hosted identity provider via OIDC.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oidc, mock)", v)
	}
}

// OIDCConfig contains hosted identity provider configuration.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"hrnova"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	RevokeURL    string `env:"REVOKE_URL"    envDefault:""`
}

// DevAuthConfig controls mock/dev authentication identities.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	// Users is a semicolon-separated list of identifier:secret:group entries,
	// e.g. "ana@dev:pw:SysAdmin;bob@dev:pw:".
	Users []string `env:"USERS" envDefault:"dev@hrnova.example:devpass:SysAdmin" envSeparator:";"`

	// SigningSecret signs locally minted dev tokens.
	SigningSecret string `env:"SIGNING_SECRET" envDefault:"hrnova-dev-secret"`

	// SessionDuration bounds dev token lifetime.
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider adapter to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oidc"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the group marker that maps to the SystemAdmin role.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"SystemAdmin"`

	// HrGroup is the group marker that maps to the HrAdmin role.
	HrGroup string `env:"HR_GROUP" envDefault:"HRAdmin"`

	// ManagerGroup is the group marker that maps to the Manager role.
	ManagerGroup string `env:"MANAGER_GROUP" envDefault:"Manager"`
}
