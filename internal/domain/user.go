package domain

import "fmt"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWaiter Role = "waiter"
)

// ParseRole maps a role registry name onto the closed set of roles the POS
// understands.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin", "Administrador":
		return RoleAdmin, nil
	case "waiter", "Camarero/a":
		return RoleWaiter, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleWaiter
}
