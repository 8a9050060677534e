package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of principal roles. Every role except
// RoleSuperAdmin is bound to exactly one building.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleBuildingAdmin Role = "building_admin"
	RoleDoorman       Role = "doorman"
	RoleReceptionist  Role = "receptionist"
)

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleBuildingAdmin, RoleDoorman, RoleReceptionist:
		return Role(s), true
	default:
		return "", false
	}
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	BuildingID   uuid.UUID `json:"building_id,omitempty"` // uuid.Nil for super_admin
	CompanyID    uuid.UUID `json:"company_id,omitempty"`  // uuid.Nil unless receptionist
	CreatedAt    time.Time `json:"created_at"`
}
