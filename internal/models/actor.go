package models

import "github.com/google/uuid"

// Role is the marketplace role an authenticated caller acts under
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	default:
		return false
	}
}

// Actor identifies who triggered an operation. Authentication happens
// upstream; the service only checks ownership and role.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the actor has platform administrator rights.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
