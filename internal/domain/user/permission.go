package user

type Permission string

const (
	// Payroll
	PermissionPayrollView        Permission = "payroll.view"
	PermissionPayrollRecalculate Permission = "payroll.recalculate"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionPayrollView,
		PermissionPayrollRecalculate,
	},
	RoleManager: {
		PermissionPayrollView,
		PermissionPayrollRecalculate,
	},
	RoleEmployee: {},
	RolePending:  {},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
