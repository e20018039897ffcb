package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Runs payroll for the company
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// Principal is the authenticated caller as resolved from the access token.
type Principal struct {
	UserID    string
	CompanyID string
	Role      Role
	// CrossCompany grants access to every company's data.
	CrossCompany bool
}

// CanAccessCompany reports whether the principal may see data of companyID.
func (p Principal) CanAccessCompany(companyID string) bool {
	if p.CrossCompany {
		return true
	}
	return p.CompanyID != "" && p.CompanyID == companyID
}

// Can checks the role permission table.
func (p Principal) Can(permission Permission) bool {
	return HasPermission(p.Role, permission)
}
