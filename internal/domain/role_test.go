package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, name := range []string{"MANAGER", "SUPPORT", "USER"} {
		role, ok := ParseRole(name)
		assert.True(t, ok)
		assert.Equal(t, Role(name), role)
	}

	_, ok := ParseRole("ADMIN")
	assert.False(t, ok)
	_, ok = ParseRole("manager")
	assert.False(t, ok)
}

func TestIsPrivileged(t *testing.T) {
	assert.True(t, RoleManager.IsPrivileged())
	assert.True(t, RoleSupport.IsPrivileged())
	assert.False(t, RoleUser.IsPrivileged())
}

func TestAllRolesCoversRegistry(t *testing.T) {
	assert.Len(t, AllRoles(), 3)
}
