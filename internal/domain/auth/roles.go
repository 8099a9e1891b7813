package auth

const (
	RoleEmployee   = "employee"
	RoleSupervisor = "supervisor"
	RoleHRAdmin    = "hr_admin"
	RoleManager    = "manager"
	RoleSuperAdmin = "super_admin"
)

// AdminRoles is the broad read-access tier. Write actions use narrower sets
// from the policy table.
var AdminRoles = []string{RoleSupervisor, RoleHRAdmin, RoleManager, RoleSuperAdmin}

var KnownRoles = []string{RoleEmployee, RoleSupervisor, RoleHRAdmin, RoleManager, RoleSuperAdmin}

func IsAdminRole(role string) bool {
	for _, admin := range AdminRoles {
		if role == admin {
			return true
		}
	}
	return false
}
