package domain

import (
	"net/url"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleUser   Role = "User"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

// User represents an account managed from the dashboard.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	Avatar    string     `json:"avatar"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CreateUserInput carries the caller-supplied fields of a new user.
type CreateUserInput struct {
	Name   string
	Email  string
	Role   Role
	Status UserStatus
}

// UpdateUserInput is a partial update: nil fields keep the stored value,
// non-nil fields overwrite it even when they hold the zero value.
type UpdateUserInput struct {
	Name   *string
	Email  *string
	Role   *Role
	Status *UserStatus
}

// Apply merges the present fields of in over u. The avatar follows the name.
func (u User) Apply(in UpdateUserInput) User {
	if in.Name != nil {
		u.Name = *in.Name
		u.Avatar = AvatarURL(u.Name)
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Status != nil {
		u.Status = *in.Status
	}
	return u
}

const avatarBase = "https://api.dicebear.com/7.x/initials/svg"

// AvatarURL returns the initials avatar for name.
func AvatarURL(name string) string {
	seed := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return avatarBase + "?seed=" + seed + "&backgroundColor=228be6"
}
