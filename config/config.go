package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication configuration
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
type AppConfig struct {
	// IsDev controls development mode behavior (mock auth defaults, seeding).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Directory configuration
	Directory DirectoryConfig `envPrefix:"DIRECTORY_"`
}

// DirectoryConfig holds employee directory policy knobs.
type DirectoryConfig struct {
	// AllowedEmailDomain restricts new employee email addresses to the given
	// registrable domain (e.g., "hrnova.example"). Empty disables the check.
	AllowedEmailDomain string `env:"ALLOWED_EMAIL_DOMAIN" envDefault:""`

	// DefaultAnnualLeave / DefaultSickLeave / DefaultPersonalLeave seed the
	// leave balance created alongside a new employee.
	DefaultAnnualLeave   int `env:"DEFAULT_ANNUAL_LEAVE"   envDefault:"25"`
	DefaultSickLeave     int `env:"DEFAULT_SICK_LEAVE"     envDefault:"10"`
	DefaultPersonalLeave int `env:"DEFAULT_PERSONAL_LEAVE" envDefault:"5"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Directory.Sanitize()
	c.detectDevMode()
}

// Sanitize clamps directory defaults to non-negative values.
func (d *DirectoryConfig) Sanitize() {
	if d.DefaultAnnualLeave < 0 {
		d.DefaultAnnualLeave = 0
	}
	if d.DefaultSickLeave < 0 {
		d.DefaultSickLeave = 0
	}
	if d.DefaultPersonalLeave < 0 {
		d.DefaultPersonalLeave = 0
	}
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
