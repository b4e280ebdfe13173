package domain

// Role enumerates the fixed set of principal roles on the platform.
type Role string

const (
	RoleSystemOperator Role = "system_operator"
	RoleHRAdmin        Role = "hr_admin"
	RoleHRManager      Role = "hr_manager"
	RoleEmployee       Role = "employee"
	RoleCustomer       Role = "customer"
)

// ParseRole validates a raw role string. Unknown values are rejected rather
// than defaulted so authorization checks fail closed.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleSystemOperator, RoleHRAdmin, RoleHRManager, RoleEmployee, RoleCustomer:
		return Role(raw), true
	default:
		return "", false
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsSystem reports whether the role operates outside any company scope.
func (r Role) IsSystem() bool {
	return r == RoleSystemOperator
}
