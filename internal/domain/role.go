package domain

// Role enumerates the fixed set of account roles.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleSupport Role = "SUPPORT"
	RoleUser    Role = "USER"
)

// AllRoles lists every registered role.
func AllRoles() []Role {
	return []Role{RoleManager, RoleSupport, RoleUser}
}

// ParseRole looks a role up by name.
func ParseRole(name string) (Role, bool) {
	switch Role(name) {
	case RoleManager, RoleSupport, RoleUser:
		return Role(name), true
	}
	return "", false
}

// IsPrivileged reports whether the role belongs to support staff
// (MANAGER or SUPPORT). Only privileged roles can hold assignments.
func (r Role) IsPrivileged() bool {
	return r == RoleManager || r == RoleSupport
}
