package auth

import (
	"strconv"
	"strings"

	"github.com/Zia-11/web-project/internal/domain"
)

// Principal is the authenticated caller. Role memberships and the staff
// flag are snapshot at login time; guards never re-query them.
type Principal struct {
	UserID   int64
	Username string
	Email    string
	Roles    []string
	IsStaff  bool
}

// NewPrincipal snapshots a user's capabilities.
func NewPrincipal(user *domain.User) *Principal {
	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)
	return &Principal{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    roles,
		IsStaff:  user.IsStaff,
	}
}

// HasRole reports whether the principal holds the named role.
func (p *Principal) HasRole(name string) bool {
	for _, role := range p.Roles {
		if role == name {
			return true
		}
	}
	return false
}

// SessionFields flattens the principal into session hash fields.
func (p *Principal) SessionFields() map[string]string {
	return map[string]string{
		"_auth_user_id":  strconv.FormatInt(p.UserID, 10),
		"_auth_username": p.Username,
		"_auth_email":    p.Email,
		"_auth_roles":    strings.Join(p.Roles, ","),
		"_auth_staff":    strconv.FormatBool(p.IsStaff),
	}
}

// PrincipalFromSession rebuilds a principal from session hash fields.
// Returns nil when the session carries no authenticated user.
func PrincipalFromSession(fields map[string]string) *Principal {
	rawID, ok := fields["_auth_user_id"]
	if !ok || rawID == "" {
		return nil
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil
	}

	var roles []string
	if raw := fields["_auth_roles"]; raw != "" {
		roles = strings.Split(raw, ",")
	}
	staff, _ := strconv.ParseBool(fields["_auth_staff"])

	return &Principal{
		UserID:   id,
		Username: fields["_auth_username"],
		Email:    fields["_auth_email"],
		Roles:    roles,
		IsStaff:  staff,
	}
}
