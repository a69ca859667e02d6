package domain

import "time"

// User is an account that can authenticate against the service.
// Role memberships and the staff flag are resolved once at login and
// carried in the session context rather than re-queried per check.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []string
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role == name {
			return true
		}
	}
	return false
}
