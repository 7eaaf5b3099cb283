// Package entity contains the core business objects of the project.
package entity

// PermissionType is the level of an explicit per-user grant on a robot.
type PermissionType string

const (
	// PermissionUsage allows operating the robot and maintaining settings.
	PermissionUsage PermissionType = "USAGE"
	// PermissionAdmin additionally allows granting/revoking permissions and deletion.
	PermissionAdmin PermissionType = "ADMIN"
)

// String returns the string representation of the PermissionType.
func (p PermissionType) String() string {
	return string(p)
}

// IsValid checks if the PermissionType is a valid value.
func (p PermissionType) IsValid() bool {
	switch p {
	case PermissionUsage, PermissionAdmin:
		return true
	default:
		return false
	}
}
