package models

import (
	"time"
)

// Role is a user's authorization role.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditorial  Role = "editorial"
)

// ValidRoles defines allowed user roles
var ValidRoles = map[Role]bool{
	RoleSuperAdmin: true,
	RoleAdmin:      true,
	RoleEditorial:  true,
}

// IsAdmin reports whether the role has full content visibility.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// User represents a CMS user
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	RefreshToken string     `json:"-"`
	Phone        string     `json:"phone,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserInput is the payload for admin user creation and update.
type UserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"isActive"`
	Phone    *string `json:"phone"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

// ProfileUpdate is a self-service profile change keyed by field name.
type ProfileUpdate map[string]string

// UserQuery holds the client-requested user list filters.
type UserQuery struct {
	Role     string
	IsActive *bool
	Search   string
	Page     string
	Limit    string
	Sort     string
}

// UserStats summarises the user base.
type UserStats struct {
	TotalUsers    int          `json:"totalUsers"`
	ActiveUsers   int          `json:"activeUsers"`
	InactiveUsers int          `json:"inactiveUsers"`
	ByRole        map[Role]int `json:"byRole"`
}

// TokenPair is issued on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User *User `json:"user"`
	TokenPair
}
