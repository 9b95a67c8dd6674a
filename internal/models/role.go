package models

// Role is the fixed set of membership roles within a tenant. Roles are not
// user-configurable; the visibility policy in the scope resolver is keyed on
// these three values.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSalesManager Role = "sales_manager"
	RoleStandard     Role = "standard"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSalesManager, RoleStandard:
		return true
	}
	return false
}

// CanManageInvitations reports whether a member with this role may create,
// cancel, or resend invitations for their tenant.
func (r Role) CanManageInvitations() bool {
	return r == RoleAdmin || r == RoleSalesManager
}

// Invitable reports whether a new member may be invited with this role.
// Sales managers are promoted after onboarding, never invited directly.
func (r Role) Invitable() bool {
	return r == RoleAdmin || r == RoleStandard
}
