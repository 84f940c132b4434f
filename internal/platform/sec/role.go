// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Roles

// UserRole represents the authorization level carried by an admin token.
type UserRole string

const (
	// Full catalogue access, including deletes.
	RoleAdmin UserRole = "admin"

	// Can create and edit series, episodes and schedule rows.
	RoleEditor UserRole = "editor"

	// Read-only token holder.
	RoleViewer UserRole = "viewer"
)

// AtLeast checks if the current role meets or exceeds the target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleEditor:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
