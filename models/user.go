package models

import (
	"strings"
	"time"
)

// User roles, ordered from most to least privileged.
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

var roleRank = map[string]int{
	RoleAdmin:  3,
	RoleUser:   2,
	RoleViewer: 1,
}

// RoleAtLeast reports whether role meets or exceeds the minimum role.
// Unknown roles never satisfy any minimum.
func RoleAtLeast(role, minimum string) bool {
	return roleRank[role] >= roleRank[minimum] && roleRank[role] > 0
}

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role string) bool {
	return roleRank[role] > 0
}

// User represents a dashboard account
type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserForm represents form data for creating/updating users
type UserForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// Validate validates the user form data. When forCreate is true a
// password is required; updates may leave it empty to keep the old one.
func (f *UserForm) Validate(forCreate bool) []string {
	var errors []string

	if strings.TrimSpace(f.Username) == "" {
		errors = append(errors, "Username is required")
	}
	if len(f.Username) > 64 {
		errors = append(errors, "Username must be less than 64 characters")
	}
	if f.Email == "" {
		errors = append(errors, "Email is required")
	} else if !isValidEmail(f.Email) {
		errors = append(errors, "Email format is invalid")
	}
	if forCreate && len(f.Password) < 8 {
		errors = append(errors, "Password must be at least 8 characters")
	}
	if !forCreate && f.Password != "" && len(f.Password) < 8 {
		errors = append(errors, "Password must be at least 8 characters")
	}
	if !ValidRole(f.Role) {
		errors = append(errors, "Role must be admin, user or viewer")
	}

	return errors
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}
	if strings.Count(email, "@") > 1 {
		return false
	}
	domain := email[atIndex+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
