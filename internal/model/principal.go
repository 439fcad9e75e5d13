package model

import "github.com/google/uuid"

const (
	RoleDirector = "DIRECTOR"
	RoleManager  = "MANAGER"
	RoleStaff    = "STAFF"
	RoleViewer   = "VIEWER"
)

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Role   string
}

func (p Principal) IsDirector() bool { return p.Role == RoleDirector }
func (p Principal) IsManager() bool  { return p.Role == RoleManager }
func (p Principal) IsViewer() bool   { return p.Role == RoleViewer }

// CanMutate reports whether the principal may change ledger records.
func (p Principal) CanMutate() bool {
	return p.Role == RoleDirector || p.Role == RoleManager || p.Role == RoleStaff
}
