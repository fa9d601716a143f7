package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the access level of a user account.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ParseRole accepts a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID           int64
	UserName     string
	PasswordHash []byte
	ProfileImage *string
	Bio          *string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserStats counts what a user has contributed.
type UserStats struct {
	ThreadCount  int64
	MessageCount int64
}
