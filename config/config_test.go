package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oidc")
	t.Setenv("ADMIN_GROUP", "SysAdmin")
	t.Setenv("HR_GROUP", "PeopleOps")
	t.Setenv("MANAGER_GROUP", "Leads")
	t.Setenv("OIDC_CLIENT_ID", "hrnova-web")
	t.Setenv("OIDC_CLIENT_SECRET", "super-secret")
	t.Setenv("OIDC_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OIDC_REVOKE_URL", "https://login.example.com/oauth2/revoke")
	t.Setenv("OIDC_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_USERS", "ana@dev:pw:SysAdmin;bob@dev:pw:")
	t.Setenv("DEV_AUTH_SIGNING_SECRET", "local-secret")
	t.Setenv("DEV_AUTH_SESSION_DURATION", "4h")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOIDC,
		OIDC: OIDCConfig{
			ClientID:     "hrnova-web",
			ClientSecret: "super-secret",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
			RevokeURL:    "https://login.example.com/oauth2/revoke",
		},
		DevAuth: DevAuthConfig{
			Users:           []string{"ana@dev:pw:SysAdmin", "bob@dev:pw:"},
			SigningSecret:   "local-secret",
			SessionDuration: 4 * time.Hour,
		},
		AdminGroup:   "SysAdmin",
		HrGroup:      "PeopleOps",
		ManagerGroup: "Leads",
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    AuthMode
		expectError bool
	}{
		{input: "oidc", expected: AuthModeOIDC},
		{input: "OIDC", expected: AuthModeOIDC},
		{input: "mock", expected: AuthModeMock},
		{input: "ldap", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if mode != tt.expected {
				t.Errorf("expected mode %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{
		ReadTimeout:   0,
		WriteTimeout:  -1 * time.Second,
		ShutdownGrace: 0,
	}

	cfg.Sanitize()

	if cfg.ReadTimeout <= 0 {
		t.Fatalf("expected read timeout to fall back to default, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		t.Fatalf("expected write timeout to fall back to default, got %v", cfg.WriteTimeout)
	}
	if cfg.ShutdownGrace <= 0 {
		t.Fatalf("expected shutdown grace to fall back to default, got %v", cfg.ShutdownGrace)
	}
}

func TestDirectoryConfig_Sanitize(t *testing.T) {
	cfg := DirectoryConfig{
		DefaultAnnualLeave:   -3,
		DefaultSickLeave:     -1,
		DefaultPersonalLeave: 5,
	}

	cfg.Sanitize()

	if cfg.DefaultAnnualLeave != 0 {
		t.Errorf("expected negative annual default clamped to 0, got %d", cfg.DefaultAnnualLeave)
	}
	if cfg.DefaultSickLeave != 0 {
		t.Errorf("expected negative sick default clamped to 0, got %d", cfg.DefaultSickLeave)
	}
	if cfg.DefaultPersonalLeave != 5 {
		t.Errorf("expected personal default preserved, got %d", cfg.DefaultPersonalLeave)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	tests := []struct {
		name     string
		dev      string
		nodeEnv  string
		expected bool
	}{
		{name: "dev flag set", dev: "true", nodeEnv: "", expected: true},
		{name: "node_env development", dev: "false", nodeEnv: "development", expected: true},
		{name: "node_env dev", dev: "false", nodeEnv: "dev", expected: true},
		{name: "production", dev: "false", nodeEnv: "production", expected: false},
		{name: "nothing set", dev: "false", nodeEnv: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEV", tt.dev)
			t.Setenv("NODE_ENV", tt.nodeEnv)

			var cfg AppConfig
			if err := env.Parse(&cfg); err != nil {
				t.Fatalf("parse config: %v", err)
			}
			cfg.Sanitize()

			if cfg.IsDev != tt.expected {
				t.Errorf("expected IsDev=%v, got %v", tt.expected, cfg.IsDev)
			}
		})
	}
}
