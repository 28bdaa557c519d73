package service

import (
	"github.com/google/uuid"

	"github.com/pageza/tastetrail/backend/internal/models"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanModify reports whether the actor owns the resource or is an admin.
func (a Actor) CanModify(ownerID uuid.UUID) bool {
	return a.UserID == ownerID || a.IsAdmin()
}
