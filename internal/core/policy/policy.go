// Package policy is the single source of truth for role-scoped data access.
// All predicates are pure and total: given the same inputs they always return
// the same decision, with no hidden state and no I/O. Services translate a
// negative decision into apperrors.ErrForbidden; the filters here are never
// silently widened.
package policy

import "github.com/invobook/invoicing_app/internal/core/domain"

// Caller describes the authenticated actor a decision is made for.
type Caller struct {
	UserID    string
	Role      domain.Role
	CompanyID *string
}

// Target describes the record a caller wants to act on.
type Target struct {
	UserID    string
	Role      domain.Role
	CompanyID *string
}

// Scope is the query filter a caller is restricted to. Exactly one of All,
// CompanyID or None applies; Roles further narrows user listings.
type Scope struct {
	All       bool
	CompanyID string
	Roles     []domain.Role
	None      bool
}

// ScopeFilter computes the scope a caller may query within.
// SUPERADMIN sees every company (user listings narrowed to USER and ADMIN
// records); ADMIN sees only their own company (employee listings narrowed to
// USER records); everyone else, including an ADMIN with no assigned company,
// matches nothing. Fail-closed, not fail-open.
func ScopeFilter(caller Caller) Scope {
	switch caller.Role {
	case domain.RoleSuperadmin:
		return Scope{All: true, Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin}}
	case domain.RoleAdmin:
		if caller.CompanyID == nil || *caller.CompanyID == "" {
			return Scope{None: true}
		}
		return Scope{CompanyID: *caller.CompanyID, Roles: []domain.Role{domain.RoleUser}}
	default:
		return Scope{None: true}
	}
}

// Allows reports whether a record owned by companyID falls inside the scope.
func (s Scope) Allows(companyID string) bool {
	if s.None {
		return false
	}
	if s.All {
		return true
	}
	return companyID != "" && companyID == s.CompanyID
}

// AllowsRole reports whether a user record with the given role is visible
// under this scope's role narrowing.
func (s Scope) AllowsRole(role domain.Role) bool {
	if s.None {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanResetPassword decides whether caller may reset target's password.
// Self-reset is always forbidden. SUPERADMIN may reset anyone except self;
// ADMIN may reset only USER targets, and only within the scope filter the
// caller is already restricted to upstream.
func CanResetPassword(caller Caller, target Target) bool {
	if caller.UserID == target.UserID {
		return false
	}
	switch caller.Role {
	case domain.RoleSuperadmin:
		return true
	case domain.RoleAdmin:
		return target.Role == domain.RoleUser
	default:
		return false
	}
}

// CanCreateEmployee decides whether caller may create a user with the
// requested role. ADMIN may only request USER; SUPERADMIN may request USER
// or ADMIN; every other combination is rejected.
func CanCreateEmployee(caller Caller, requested domain.Role) bool {
	switch caller.Role {
	case domain.RoleSuperadmin:
		return requested == domain.RoleUser || requested == domain.RoleAdmin
	case domain.RoleAdmin:
		return requested == domain.RoleUser
	default:
		return false
	}
}
