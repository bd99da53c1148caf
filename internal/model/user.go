package model

// AdminRoleID is the role granted FAQ administration rights.
const AdminRoleID = 1

// AuthUser is the authenticated caller extracted from the session token.
type AuthUser struct {
	UserID string
	RoleID int
	IsPaid bool
}

// IsAdmin reports whether the user holds the admin role.
func (u AuthUser) IsAdmin() bool {
	return u.RoleID == AdminRoleID
}
