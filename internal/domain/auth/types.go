// Package auth contains domain-level types for authentication and
// authorization. It is pure and free of framework/adapter concerns.
package auth

import "time"

// Role represents an application authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleSystemAdmin Role = "SystemAdmin"
	RoleHrAdmin     Role = "HrAdmin"
	RoleManager     Role = "Manager"
	RoleEmployee    Role = "Employee"
)

// Roles lists every valid role in descending privilege order.
func Roles() []Role {
	return []Role{RoleSystemAdmin, RoleHrAdmin, RoleManager, RoleEmployee}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleHrAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Module names a gated feature area of the application.
type Module string

const (
	ModuleDashboard   Module = "Dashboard"
	ModuleCoreHR      Module = "CoreHR"
	ModuleLeave       Module = "Leave"
	ModulePerformance Module = "Performance"
	ModuleAdmin       Module = "Admin"
	ModuleAudit       Module = "Audit"
	ModuleAnalytics   Module = "Analytics"
)

// Modules lists every gated feature module.
func Modules() []Module {
	return []Module{
		ModuleDashboard,
		ModuleCoreHR,
		ModuleLeave,
		ModulePerformance,
		ModuleAdmin,
		ModuleAudit,
		ModuleAnalytics,
	}
}

// Claims is the single normalized shape for identity-provider claims.
// Adapters map provider-specific envelopes (Cognito, dev tokens) into this
// type at the boundary; the raw envelope never travels further.
type Claims struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
	Groups     []string
	ExpiresAt  time.Time // absolute expiry of the issuing token
}

// User is the authenticated identity's derived profile.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	Role      Role   `json:"role"`
}

// NewUser builds a User from normalized claims and a derived role.
// Missing display claims degrade to empty strings rather than failing.
// Returns false when the claims carry no subject identifier; absence of a
// session is a normal state, not an error.
func NewUser(c Claims, role Role) (User, bool) {
	if c.Subject == "" {
		return User{}, false
	}
	return User{
		ID:        c.Subject,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
		Email:     c.Email,
		Role:      role,
	}, true
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HasRole reports whether the session user's role is in the given set.
func (s Session) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}
