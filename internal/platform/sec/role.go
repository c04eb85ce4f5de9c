// Copyright (c) 2026 Quillshelf. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// Access control is always performed through [UserRole.AtLeast] or the
// capability helpers below, never through ad hoc string comparison.
type UserRole string

const (
	// Unrestricted system access, including role grants and moderation
	RoleSuperAdmin UserRole = "super_admin"

	// Can approve/reject books and moderate flagged reviews
	RoleAdmin UserRole = "admin"

	// Can upload and manage their own book publications
	RoleAuthor UserRole = "author"

	// Default role for standard registered readers
	RoleUser UserRole = "user"
)

// IsValid reports whether r is a recognised [UserRole] value.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleAuthor, RoleUser:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// CanPublish reports whether the role may upload books into the catalog.
func (r UserRole) CanPublish() bool {
	return r.AtLeast(RoleAuthor)
}

// CanModerate reports whether the role may act on flagged reviews and
// pending book approvals.
func (r UserRole) CanModerate() bool {
	return r.AtLeast(RoleAdmin)
}

// CanManageRoles reports whether the role may grant or revoke author access.
func (r UserRole) CanManageRoles() bool {
	return r.AtLeast(RoleSuperAdmin)
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleSuperAdmin:
		return 40
	case RoleAdmin:
		return 30
	case RoleAuthor:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
