package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultPolicy_FullTable enumerates all four roles against all seven
// modules so any grant change shows up as an explicit diff.
func TestDefaultPolicy_FullTable(t *testing.T) {
	policy := DefaultPolicy()

	expected := map[Role]map[Module]bool{
		RoleSystemAdmin: {
			ModuleDashboard: true, ModuleCoreHR: true, ModuleLeave: true,
			ModulePerformance: true, ModuleAdmin: true, ModuleAudit: true,
			ModuleAnalytics: true,
		},
		RoleHrAdmin: {
			ModuleDashboard: true, ModuleCoreHR: true, ModuleLeave: true,
			ModulePerformance: true, ModuleAdmin: true, ModuleAudit: true,
			ModuleAnalytics: true,
		},
		RoleManager: {
			ModuleDashboard: true, ModuleCoreHR: false, ModuleLeave: true,
			ModulePerformance: true, ModuleAdmin: false, ModuleAudit: false,
			ModuleAnalytics: true,
		},
		RoleEmployee: {
			ModuleDashboard: true, ModuleCoreHR: false, ModuleLeave: true,
			ModulePerformance: false, ModuleAdmin: false, ModuleAudit: false,
			ModuleAnalytics: false,
		},
	}

	for role, grants := range expected {
		for module, want := range grants {
			assert.Equal(t, want, policy.CanAccess(role, module),
				"role=%s module=%s", role, module)
		}
	}
}

func TestDefaultPolicy_AuditRestrictedToAdmins(t *testing.T) {
	policy := DefaultPolicy()

	assert.True(t, policy.CanAccess(RoleSystemAdmin, ModuleAudit))
	assert.True(t, policy.CanAccess(RoleHrAdmin, ModuleAudit))
	assert.False(t, policy.CanAccess(RoleManager, ModuleAudit))
	assert.False(t, policy.CanAccess(RoleEmployee, ModuleAudit))
}

func TestDefaultPolicy_UnknownRoleHasNoGrants(t *testing.T) {
	policy := DefaultPolicy()

	for _, m := range Modules() {
		assert.False(t, policy.CanAccess(Role("Contractor"), m))
	}
	assert.Empty(t, policy.ModulesFor(Role("Contractor")))
}

func TestPolicy_ModulesForReturnsCanonicalOrder(t *testing.T) {
	policy := DefaultPolicy()

	assert.Equal(t,
		[]Module{ModuleDashboard, ModuleLeave, ModulePerformance, ModuleAnalytics},
		policy.ModulesFor(RoleManager))
	assert.Equal(t,
		[]Module{ModuleDashboard, ModuleLeave},
		policy.ModulesFor(RoleEmployee))
}

func TestPolicy_NilReceiverDeniesEverything(t *testing.T) {
	var policy *Policy
	assert.False(t, policy.CanAccess(RoleSystemAdmin, ModuleDashboard))
	assert.Nil(t, policy.ModulesFor(RoleSystemAdmin))
}
