// Package authz holds the ownership and role checks shared by the workflow services.
package authz

import (
	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/google/uuid"
)

// Principal is the acting user as derived from the token claims.
type Principal struct {
	ID   uuid.UUID
	Role entity.UserRole
}

// IsOwnerOrRole reports whether p owns the resource or holds one of allowed.
func IsOwnerOrRole(ownerID uuid.UUID, p Principal, allowed ...entity.UserRole) bool {
	if p.ID != uuid.Nil && p.ID == ownerID {
		return true
	}
	for _, r := range allowed {
		if p.Role == r {
			return true
		}
	}
	return false
}

// RequireOwnerOrRole returns a Forbidden error carrying message when IsOwnerOrRole fails.
func RequireOwnerOrRole(ownerID uuid.UUID, p Principal, message string, allowed ...entity.UserRole) error {
	if IsOwnerOrRole(ownerID, p, allowed...) {
		return nil
	}
	return apperror.New(apperror.ErrForbidden, message)
}

// HasRole reports whether role is one of allowed.
func HasRole(role entity.UserRole, allowed ...entity.UserRole) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
