package entity

import "strings"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

type UserProfile struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DisplayName *string `json:"display_name,omitempty"`
	Email       string  `json:"email"`
	Role        Role    `json:"role"`
	IsActive    bool    `json:"is_active"`
}

const UnassignedName = "Unassigned"

// ResolvedName prefers display_name, then "first last", then "Unassigned".
func (u *UserProfile) ResolvedName() string {
	if u == nil {
		return UnassignedName
	}
	if u.DisplayName != nil && strings.TrimSpace(*u.DisplayName) != "" {
		return strings.TrimSpace(*u.DisplayName)
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return UnassignedName
	}
	return full
}
