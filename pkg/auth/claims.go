package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims accepted by the scoring service.
type Claims struct {
	jwt.RegisteredClaims
	Roles    []string  `json:"roles"`
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants.
const (
	// RoleAdmin may call every RPC.
	RoleAdmin = "admin"
	// RoleAnalyst reads assessments and submits sandbox reports.
	RoleAnalyst = "analyst"
	// RoleSensor is held by tracing agents that submit syscall sequences.
	RoleSensor = "sensor"
)
