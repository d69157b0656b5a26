package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_MapsDisplayClaims(t *testing.T) {
	claims := Claims{
		Subject:    "u-42",
		Email:      "ada@hrnova.example",
		GivenName:  "Ada",
		FamilyName: "Lovelace",
		Groups:     []string{"Employees"},
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	user, ok := NewUser(claims, RoleEmployee)

	require.True(t, ok)
	assert.Equal(t, "u-42", user.ID)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Equal(t, "ada@hrnova.example", user.Email)
	assert.Equal(t, RoleEmployee, user.Role)
}

func TestNewUser_MissingDisplayClaimsDegradeToEmpty(t *testing.T) {
	user, ok := NewUser(Claims{Subject: "u-1"}, RoleManager)

	require.True(t, ok)
	assert.Empty(t, user.FirstName)
	assert.Empty(t, user.LastName)
	assert.Empty(t, user.Email)
	assert.Equal(t, RoleManager, user.Role)
}

func TestNewUser_NoSubjectMeansNoUser(t *testing.T) {
	_, ok := NewUser(Claims{Email: "ghost@hrnova.example"}, RoleEmployee)
	assert.False(t, ok)
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid(), "role %s", r)
	}
	assert.False(t, Role("Superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestSession_HasRole(t *testing.T) {
	sess := Session{User: User{ID: "u-1", Role: RoleManager}}

	assert.True(t, sess.HasRole(RoleManager))
	assert.True(t, sess.HasRole(RoleSystemAdmin, RoleManager))
	assert.False(t, sess.HasRole(RoleSystemAdmin, RoleHrAdmin))
	assert.False(t, sess.HasRole())
}
