package models

import "time"

// Role is the authorization level stored on a user row.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a row of the "user" table. Rows are created by the application's
// signup flow; saasctl only reads them and changes Role.
type User struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
	Role          Role
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin reports whether the user already holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
