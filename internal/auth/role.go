package auth

import "strings"

// Role is the closed set of employee roles. Transitions are explicit:
// employee and manager toggle into each other, any role except admin can be
// terminated, and terminated is a one-way state.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleTerminated Role = "terminated"
)

// ParseRole maps free-form input onto a Role, case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleEmployee:
		return RoleEmployee, true
	case RoleManager:
		return RoleManager, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTerminated:
		return RoleTerminated, true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// Toggle returns the promote/demote counterpart. Admin and terminated roles
// have no counterpart.
func (r Role) Toggle() (Role, bool) {
	switch r {
	case RoleEmployee:
		return RoleManager, true
	case RoleManager:
		return RoleEmployee, true
	}
	return "", false
}

// CanBeTerminated reports whether the role may transition to terminated.
func (r Role) CanBeTerminated() bool {
	return r != RoleAdmin && r != RoleTerminated
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsTerminated() bool {
	return r == RoleTerminated
}
