// Package policy decides what a principal may see and change. It is pure:
// callers pass the principal, the requested filters and the current time, and
// receive the effective scope or a yes/no decision.
package policy

import "github.com/news-portal-api/internal/models"

// Principal is the actor behind a request. A nil *Principal is unauthenticated.
type Principal struct {
	ID   string
	Role models.Role
}

// IsAdmin reports whether p is an admin or super admin.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role.IsAdmin()
}

// IsSuperAdmin reports whether p is a super admin.
func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == models.RoleSuperAdmin
}

// Owns reports whether p is the owner recorded as ownerID.
func (p *Principal) Owns(ownerID string) bool {
	return p != nil && p.ID != "" && p.ID == ownerID
}
