package auth

import "strings"

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleHR       Role = "HR Admin"
)

var Roles = []Role{RoleEmployee, RoleManager, RoleHR}

func ParseRole(value string) (Role, bool) {
	trimmed := strings.TrimSpace(value)
	for _, role := range Roles {
		if strings.EqualFold(trimmed, string(role)) {
			return role, true
		}
	}
	return "", false
}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the authenticated user performing a request. It is only ever
// built from a stored user record, never from token claims alone.
type Actor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	ManagerID  string `json:"managerId,omitempty"`
}

func (a Actor) Authenticated() bool {
	return a.ID != "" && a.Role.Valid()
}
