package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
)

func testMapper() StaticRoleMapper {
	return StaticRoleMapper{
		AdminGroup:   "SysAdmin",
		HrGroup:      "HRAdmin",
		ManagerGroup: "Manager",
	}
}

func TestStaticRoleMapper_Map(t *testing.T) {
	m := testMapper()

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{"admin marker", []string{"SysAdmin"}, domainauth.RoleSystemAdmin},
		{"hr marker", []string{"HRAdmin"}, domainauth.RoleHrAdmin},
		{"manager marker", []string{"Manager"}, domainauth.RoleManager},
		{"no markers", []string{"Engineering", "Oncall"}, domainauth.RoleEmployee},
		{"empty groups", []string{}, domainauth.RoleEmployee},
		{"nil groups", nil, domainauth.RoleEmployee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}
}

// Priority is Admin > HR > Manager > Employee even when several markers are
// present at once.
func TestStaticRoleMapper_PriorityWithMultipleMarkers(t *testing.T) {
	m := testMapper()

	assert.Equal(t, domainauth.RoleSystemAdmin,
		m.Map([]string{"Manager", "HRAdmin", "SysAdmin"}))
	assert.Equal(t, domainauth.RoleHrAdmin,
		m.Map([]string{"Manager", "HRAdmin"}))
	assert.Equal(t, domainauth.RoleManager,
		m.Map([]string{"Engineering", "Manager"}))
}

func TestStaticRoleMapper_EmptyMarkersNeverMatch(t *testing.T) {
	m := StaticRoleMapper{}

	// An unset marker must not match empty group names.
	assert.Equal(t, domainauth.RoleEmployee, m.Map([]string{""}))
	assert.Equal(t, domainauth.RoleEmployee, m.Map([]string{"SysAdmin"}))
}
