// Package access implements the permission resolution rules that every
// robot and settings operation relies on. Resolution is a pure function over
// the three ownership relations: direct user ownership, group ownership plus
// membership role, and explicit per-user grants.
package access

import (
	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
)

// Resolution is the answer to "what can this user do with this robot".
type Resolution struct {
	// HasAccess is true when the user may view the robot and maintain
	// their own settings for it.
	HasAccess bool
	// IsAdmin is true when the user may additionally grant/revoke
	// permissions and delete the robot.
	IsAdmin bool
}

// Permission reports the resolved permission level for API responses:
// ADMIN for owners/group-admins, the explicit grant type otherwise,
// nil when the user has no access at all.
func (r Resolution) Permission() *entity.PermissionType {
	switch {
	case r.IsAdmin:
		p := entity.PermissionAdmin

		return &p
	case r.HasAccess:
		p := entity.PermissionUsage

		return &p
	default:
		return nil
	}
}

// Resolve combines ownership, group membership and an explicit grant into a
// Resolution for userID on robot.
//
// membership is the user's membership in the robot's owning group (nil when
// the robot is user-owned or the user is not a member). grant is the user's
// explicit permission row on the robot (nil when absent). Ownership and
// group-admin always dominate a weaker explicit grant.
func Resolve(userID uuid.UUID, robot *entity.Robot, membership *entity.GroupMember, grant *entity.RobotPermission) Resolution {
	if robot.OwnedByUser(userID) {
		return Resolution{HasAccess: true, IsAdmin: true}
	}

	if robot.OwnerType == entity.OwnerTypeGroup && membership != nil {
		admin := membership.IsAdmin() || (grant != nil && grant.PermissionType == entity.PermissionAdmin)

		return Resolution{
			HasAccess: admin || grant != nil,
			IsAdmin:   admin,
		}
	}

	// No ownership relation: the explicit grant is all the user has.
	if grant != nil {
		return Resolution{
			HasAccess: true,
			IsAdmin:   grant.PermissionType == entity.PermissionAdmin,
		}
	}

	return Resolution{}
}
