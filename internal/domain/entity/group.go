// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Group is a named collection of users. Groups can own robots; management
// rights over the group and its robots belong to members with RoleAdmin.
type Group struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Members   []GroupMember `json:"members,omitempty"`
	Robots    []Robot       `json:"robots,omitempty"`   // Robots owned by this group, populated on listings.
	UserRole  MemberRole    `json:"userRole,omitempty"` // The caller's role in this group, populated on listings.
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"-"`
}

// GroupMember links a user to a group with a role. The (UserID, GroupID)
// pair is unique; a group keeps zero or more admins (the last admin can be
// demoted or removed, leaving the group unmanageable — known gap).
type GroupMember struct {
	UserID    uuid.UUID   `json:"userId"`
	GroupID   uuid.UUID   `json:"groupId"`
	Role      MemberRole  `json:"role"`
	User      *PublicUser `json:"user,omitempty"` // Identity of the member, populated on reads.
	CreatedAt time.Time   `json:"createdAt"`
}

// IsAdmin reports whether this membership carries management rights.
func (m *GroupMember) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}
