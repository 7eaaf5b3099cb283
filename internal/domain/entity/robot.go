// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Robot is a fleet asset with a globally unique serial number and exactly
// one owner — either a user or a group, discriminated by OwnerType.
type Robot struct {
	ID           uuid.UUID         `json:"id"`
	SerialNumber string            `json:"serialNumber"`
	Name         string            `json:"name"`
	OwnerType    OwnerType         `json:"ownerType"`
	OwnerID      uuid.UUID         `json:"ownerId"`
	Permissions  []RobotPermission `json:"permissions,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"-"`
}

// OwnedByUser reports whether the robot is directly owned by the given user.
func (r *Robot) OwnedByUser(userID uuid.UUID) bool {
	return r.OwnerType == OwnerTypeUser && r.OwnerID == userID
}

// RobotPermission is an explicit (user, robot) grant, independent of
// ownership. The pair is unique; re-granting replaces the permission type.
type RobotPermission struct {
	UserID         uuid.UUID      `json:"userId"`
	RobotID        uuid.UUID      `json:"robotId"`
	PermissionType PermissionType `json:"permissionType"`
	User           *PublicUser    `json:"user,omitempty"` // Identity of the grantee, populated on reads.
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"-"`
}

// GrantFor returns the explicit grant held by the given user, if any.
// Permissions must have been preloaded.
func (r *Robot) GrantFor(userID uuid.UUID) *RobotPermission {
	for i := range r.Permissions {
		if r.Permissions[i].UserID == userID {
			return &r.Permissions[i]
		}
	}

	return nil
}
