package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hrnova/ui-api/config"
	"github.com/hrnova/ui-api/internal/adapters/authroles"
	"github.com/hrnova/ui-api/internal/adapters/devauth"
	"github.com/hrnova/ui-api/internal/adapters/oidc"
	redisadapter "github.com/hrnova/ui-api/internal/adapters/redis"
	"github.com/hrnova/ui-api/internal/core"
	"github.com/hrnova/ui-api/internal/ports"
	"github.com/hrnova/ui-api/internal/service"
)

// AuthConfig contains dependencies for building the auth service.
type AuthConfig struct {
	Config      config.AuthConfig
	RedisClient redis.UniversalClient
	Audit       core.AuditRepository // Optional: login/logout audit trail
	Logger      *slog.Logger
}

// BuildAuthService constructs the auth service with the identity provider
// selected by AUTH_MODE. Sessions always live in Redis regardless of mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	provider, err := BuildIdentityProvider(cfg.Config, cfg.Logger)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: redisadapter.NewSessionStore(cfg.RedisClient),
		Roles:    RoleMapperFromConfig(cfg.Config),
		Audit:    cfg.Audit,
		Logger:   cfg.Logger,
	})
}

// RoleMapperFromConfig builds the group-to-role mapper from configuration.
func RoleMapperFromConfig(cfg config.AuthConfig) authroles.StaticRoleMapper {
	return authroles.StaticRoleMapper{
		AdminGroup:   cfg.AdminGroup,
		HrGroup:      cfg.HrGroup,
		ManagerGroup: cfg.ManagerGroup,
	}
}

// BuildIdentityProvider constructs the identity provider selected by
// AUTH_MODE. The admin CLI uses it directly for ambient login.
//
//nolint:ireturn // the provider port is the whole point of mode selection.
func BuildIdentityProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.IdentityProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		if logger != nil {
			logger.Warn("mock authentication enabled; do not use in production")
		}
		provider, err := devauth.NewProvider(devauth.Config{
			Users:           cfg.DevAuth.Users,
			SigningSecret:   cfg.DevAuth.SigningSecret,
			SessionDuration: cfg.DevAuth.SessionDuration,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		return provider, nil

	case config.AuthModeOIDC:
		provider, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			Scope:        cfg.OIDC.Scope,
			DiscoveryURL: cfg.OIDC.DiscoveryURL,
			RevokeURL:    cfg.OIDC.RevokeURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
