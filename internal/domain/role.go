package domain

// Roles embedded in session tokens.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
)
