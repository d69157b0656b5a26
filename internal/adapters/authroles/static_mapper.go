package authroles

import (
	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
)

// StaticRoleMapper derives a role from group membership markers.
// Priority order is fixed: admin marker wins over the HR marker, which wins
// over the manager marker; anything else falls back to Employee. The fallback
// is unconditional, so a user always has a role.
type StaticRoleMapper struct {
	AdminGroup   string
	HrGroup      string
	ManagerGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if m.contains(groups, m.AdminGroup) {
		return domainauth.RoleSystemAdmin
	}
	if m.contains(groups, m.HrGroup) {
		return domainauth.RoleHrAdmin
	}
	if m.contains(groups, m.ManagerGroup) {
		return domainauth.RoleManager
	}
	return domainauth.RoleEmployee
}

func (m StaticRoleMapper) contains(groups []string, marker string) bool {
	if marker == "" {
		return false
	}
	for _, g := range groups {
		if g == marker {
			return true
		}
	}
	return false
}
