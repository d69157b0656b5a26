package auth

// Policy is a read-only mapping from role to accessible modules.
// The table is fixed at process start and never mutated at runtime; the admin
// screen renders a display copy only.
type Policy struct {
	grants map[Role]map[Module]bool
}

// DefaultPolicy returns the built-in role/module grant table.
func DefaultPolicy() *Policy {
	grant := func(mods ...Module) map[Module]bool {
		m := make(map[Module]bool, len(mods))
		for _, mod := range mods {
			m[mod] = true
		}
		return m
	}
	return &Policy{grants: map[Role]map[Module]bool{
		RoleSystemAdmin: grant(Modules()...),
		RoleHrAdmin: grant(
			ModuleDashboard,
			ModuleCoreHR,
			ModuleLeave,
			ModulePerformance,
			ModuleAdmin,
			ModuleAudit,
			ModuleAnalytics,
		),
		RoleManager: grant(
			ModuleDashboard,
			ModuleLeave,
			ModulePerformance,
			ModuleAnalytics,
		),
		RoleEmployee: grant(
			ModuleDashboard,
			ModuleLeave,
		),
	}}
}

// CanAccess reports whether the role's grant set contains the module.
// Unknown roles have no grants.
func (p *Policy) CanAccess(role Role, module Module) bool {
	if p == nil {
		return false
	}
	return p.grants[role][module]
}

// ModulesFor returns the modules accessible to the role, in the canonical
// module order. The returned slice is a fresh copy.
func (p *Policy) ModulesFor(role Role) []Module {
	if p == nil {
		return nil
	}
	granted := p.grants[role]
	out := make([]Module, 0, len(granted))
	for _, m := range Modules() {
		if granted[m] {
			out = append(out, m)
		}
	}
	return out
}
