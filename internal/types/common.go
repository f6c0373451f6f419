package types

import (
	uuid "github.com/gofrs/uuid"
)

// Common Role Values
const (
	UserRole  = "user"
	AdminRole = "admin"
)

// Record Actions
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// UserContext carries the authenticated caller's identity through service
// calls. Authentication itself happens upstream; this core only consumes it.
type UserContext struct {
	UserID      uuid.UUID `json:"userId"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	ReadableIDs []string  `json:"readableIds,omitempty"`
}

// IsAdmin reports whether the caller holds the admin role
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == AdminRole
}
