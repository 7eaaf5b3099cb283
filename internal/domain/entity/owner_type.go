// Package entity contains the core business objects of the project.
package entity

// OwnerType discriminates the interpretation of a robot's OwnerID:
// a user ID or a group ID. Together they form the tagged ownership pair —
// every robot has exactly one owner.
type OwnerType string

const (
	// OwnerTypeUser indicates the robot is owned directly by a user.
	OwnerTypeUser OwnerType = "USER"
	// OwnerTypeGroup indicates the robot is owned by a group.
	OwnerTypeGroup OwnerType = "GROUP"
)

// String returns the string representation of the OwnerType.
func (o OwnerType) String() string {
	return string(o)
}

// IsValid checks if the OwnerType is a valid value.
func (o OwnerType) IsValid() bool {
	switch o {
	case OwnerTypeUser, OwnerTypeGroup:
		return true
	default:
		return false
	}
}
