package auth

import (
	"github.com/flashreport/api/internal/pkg/apperror"
)

// Principal is the authenticated identity bound to a request.
type Principal struct {
	ID       string
	Username string
	Role     Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// RequireRole denies unless the principal holds exactly the given role.
// An anonymous principal is rejected as unauthenticated, not forbidden.
func RequireRole(p *Principal, role Role) error {
	if p == nil {
		return apperror.Wrap(apperror.ErrUnauthorized, "Authentication required")
	}
	if p.Role != role {
		return apperror.Wrap(apperror.ErrForbidden, "You don't have permission to perform this action")
	}
	return nil
}

// RequireOwnerOrAdmin denies unless the principal owns the resource or is an
// admin.
func RequireOwnerOrAdmin(p *Principal, ownerID string) error {
	if p == nil {
		return apperror.Wrap(apperror.ErrUnauthorized, "Authentication required")
	}
	if p.ID == ownerID || p.Role == RoleAdmin {
		return nil
	}
	return apperror.Wrap(apperror.ErrForbidden, "You don't have permission to access this resource")
}

// GuardLastAdmin rejects demoting the final remaining admin. The caller must
// serialize this check with the role mutation that follows it; see the users
// service, which holds a mutex across both.
func GuardLastAdmin(target *User, adminCount int64) error {
	if target.Role == RoleAdmin && adminCount <= 1 {
		return apperror.Wrap(apperror.ErrInvariant, "Cannot demote the last admin user")
	}
	return nil
}
