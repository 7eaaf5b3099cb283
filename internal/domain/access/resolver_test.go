package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"robofleet/internal/domain/entity"
)

func TestResolve(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	groupID := uuid.New()

	userOwned := &entity.Robot{ID: uuid.New(), OwnerType: entity.OwnerTypeUser, OwnerID: userID}
	foreignOwned := &entity.Robot{ID: uuid.New(), OwnerType: entity.OwnerTypeUser, OwnerID: otherID}
	groupOwned := &entity.Robot{ID: uuid.New(), OwnerType: entity.OwnerTypeGroup, OwnerID: groupID}

	adminMember := &entity.GroupMember{UserID: userID, GroupID: groupID, Role: entity.RoleAdmin}
	plainMember := &entity.GroupMember{UserID: userID, GroupID: groupID, Role: entity.RoleMember}

	usageGrant := func(r *entity.Robot) *entity.RobotPermission {
		return &entity.RobotPermission{UserID: userID, RobotID: r.ID, PermissionType: entity.PermissionUsage}
	}
	adminGrant := func(r *entity.Robot) *entity.RobotPermission {
		return &entity.RobotPermission{UserID: userID, RobotID: r.ID, PermissionType: entity.PermissionAdmin}
	}

	tests := []struct {
		name       string
		robot      *entity.Robot
		membership *entity.GroupMember
		grant      *entity.RobotPermission
		want       Resolution
	}{
		{
			name:  "direct owner has admin access",
			robot: userOwned,
			want:  Resolution{HasAccess: true, IsAdmin: true},
		},
		{
			name:  "owner beats weaker explicit grant",
			robot: userOwned,
			grant: usageGrant(userOwned),
			want:  Resolution{HasAccess: true, IsAdmin: true},
		},
		{
			name:  "stranger has nothing",
			robot: foreignOwned,
			want:  Resolution{},
		},
		{
			name:  "usage grant on foreign robot",
			robot: foreignOwned,
			grant: usageGrant(foreignOwned),
			want:  Resolution{HasAccess: true, IsAdmin: false},
		},
		{
			name:  "admin grant on foreign robot",
			robot: foreignOwned,
			grant: adminGrant(foreignOwned),
			want:  Resolution{HasAccess: true, IsAdmin: true},
		},
		{
			name:       "group admin has admin access without grant",
			robot:      groupOwned,
			membership: adminMember,
			want:       Resolution{HasAccess: true, IsAdmin: true},
		},
		{
			name:       "group admin beats weaker explicit grant",
			robot:      groupOwned,
			membership: adminMember,
			grant:      usageGrant(groupOwned),
			want:       Resolution{HasAccess: true, IsAdmin: true},
		},
		{
			name:       "plain member without grant has no access",
			robot:      groupOwned,
			membership: plainMember,
			want:       Resolution{},
		},
		{
			name:       "plain member with usage grant",
			robot:      groupOwned,
			membership: plainMember,
			grant:      usageGrant(groupOwned),
			want:       Resolution{HasAccess: true, IsAdmin: false},
		},
		{
			name:       "plain member promoted by admin grant",
			robot:      groupOwned,
			membership: plainMember,
			grant:      adminGrant(groupOwned),
			want:       Resolution{HasAccess: true, IsAdmin: true},
		},
		{
			name:  "non-member with grant on group robot",
			robot: groupOwned,
			grant: usageGrant(groupOwned),
			want:  Resolution{HasAccess: true, IsAdmin: false},
		},
		{
			name:  "non-member without grant on group robot",
			robot: groupOwned,
			want:  Resolution{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(userID, tt.robot, tt.membership, tt.grant)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolutionPermission(t *testing.T) {
	adminLevel := entity.PermissionAdmin
	usageLevel := entity.PermissionUsage

	assert.Equal(t, &adminLevel, Resolution{HasAccess: true, IsAdmin: true}.Permission())
	assert.Equal(t, &usageLevel, Resolution{HasAccess: true}.Permission())
	assert.Nil(t, Resolution{}.Permission())
}
