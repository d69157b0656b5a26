package httpx

import (
	"net/http"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
)

// AdminHandlers exposes the role/module policy table. The table is fixed at
// process start; the admin screen renders this display copy read-only.
type AdminHandlers struct {
	Policy *domainauth.Policy
}

type rolePolicy struct {
	Role    domainauth.Role     `json:"role"`
	Modules []domainauth.Module `json:"modules"`
}

// PolicyTable handles GET /api/admin/policy.
func (h *AdminHandlers) PolicyTable(w http.ResponseWriter, r *http.Request) {
	table := make([]rolePolicy, 0, len(domainauth.Roles()))
	for _, role := range domainauth.Roles() {
		table = append(table, rolePolicy{
			Role:    role,
			Modules: h.Policy.ModulesFor(role),
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roles": table})
}
