package models

// Session is the single current authenticated identity. Login and signup
// overwrite it unconditionally; logout deletes it.
type Session struct {
	Role      Role   `json:"role"`
	UserEmail string `json:"userEmail,omitempty"`
}
