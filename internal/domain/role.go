package domain

// Role is a position in the fixed hierarchy employee < manager < hr < admin.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

var roleLevels = map[Role]int{
	RoleEmployee: 1,
	RoleManager:  2,
	RoleHR:       3,
	RoleAdmin:    4,
}

// Level returns the rank of the role. Unknown roles rank 0.
func (r Role) Level() int {
	return roleLevels[r]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Level() > 0
}

// Roles lists the known roles from lowest to highest.
func Roles() []Role {
	return []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}
}
