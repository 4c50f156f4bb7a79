package entity

// Roles are stored on the user as plain strings; RoleUser is granted
// when a new account does not specify any.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// DefaultRoles returns a fresh slice so callers may mutate it.
func DefaultRoles() []string {
	return []string{RoleUser}
}
