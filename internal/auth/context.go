package auth

// Gin context keys set by the JWT middleware for downstream handlers.
const (
	// ContextUserEmail is the authenticated account email.
	ContextUserEmail = "user_email"
	// ContextUserRole is the authenticated account role.
	ContextUserRole = "user_role"
)
