package models

// Roles ordered from least to most privileged.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

// roleHierarchy maps each role to its permission level. An unknown user
// role maps to 0 and an unknown required role to 5, so a user with a
// bogus role satisfies nothing and a bogus requirement is unsatisfiable.
var roleHierarchy = map[string]int{
	RoleEmployee: 1,
	RoleManager:  2,
	RoleHR:       3,
	RoleAdmin:    4,
}

// RoleLevel returns the permission level for a role, 0 if unknown.
func RoleLevel(role string) int {
	return roleHierarchy[role]
}

// HasRole reports whether userRole meets or exceeds requiredRole in the
// employee < manager < hr < admin hierarchy.
func HasRole(userRole, requiredRole string) bool {
	required, ok := roleHierarchy[requiredRole]
	if !ok {
		required = 5
	}
	return roleHierarchy[userRole] >= required
}
