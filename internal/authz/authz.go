// Package authz holds the authenticated principal and the access predicates
// applied to it.
package authz

import (
	"storefront/internal/apperr"
	"storefront/internal/models"
)

// Principal is the identity resolved from a bearer token.
type Principal struct {
	ID      uint
	Role    models.Role
	TokenID uint
}

// IsAdmin reports whether p carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// AdminOnly admits administrators only.
func AdminOnly(p Principal) error {
	if !p.IsAdmin() {
		return apperr.ErrForbidden
	}
	return nil
}

// SameOrAdmin admits the owner of a resource or any administrator.
func SameOrAdmin(p Principal, ownerID uint) error {
	if p.ID == ownerID || p.IsAdmin() {
		return nil
	}
	return apperr.ErrForbidden
}
