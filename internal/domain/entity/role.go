// Package entity contains the core business objects of the project.
package entity

// MemberRole represents the role a user holds inside a group.
type MemberRole string

const (
	// RoleAdmin members manage the group: membership, roles, group-owned robots.
	RoleAdmin MemberRole = "ADMIN"
	// RoleMember is the default role with no management rights.
	RoleMember MemberRole = "MEMBER"
)

// String returns the string representation of the MemberRole.
func (r MemberRole) String() string {
	return string(r)
}

// IsAdminRole reports whether the role carries management rights.
func (r MemberRole) IsAdminRole() bool {
	return r == RoleAdmin
}

// IsValid checks if the MemberRole is a valid value.
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}
