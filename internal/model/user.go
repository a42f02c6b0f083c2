// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain entities shared by the store, service
// and handler layers: users, projects, blog posts, testimonials and the
// site settings document, together with filters, patch types and errors.
package model

import (
	"time"
)

// Role is a user role. Roles are hierarchical: admin > editor > viewer.
type Role string

// User roles.
const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

// Level returns the numeric level of a role. Unknown roles have level 0.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// User represents an account that can sign in to the admin API.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"-"` // argon2id hash, never serialized
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `json:"isActive"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasRole reports whether the user's role is at least min.
func (u *User) HasRole(min Role) bool {
	return u.Role.Level() >= min.Level()
}

// UserPatch is a partial update of a user. Unset fields are left untouched.
// Password carries the plain-text password until the service replaces it
// with a hash.
type UserPatch struct {
	Username Opt[string] `json:"username" db:"username" validate:"omitempty,min=3,max=50"`
	Email    Opt[string] `json:"email" db:"email" validate:"omitempty,email"`
	Password Opt[string] `json:"password" db:"password" validate:"omitempty,min=6"`
	Role     Opt[Role]   `json:"role" db:"role" validate:"omitempty,oneof=admin editor viewer"`
	IsActive Opt[bool]   `json:"isActive" db:"is_active"`
}
