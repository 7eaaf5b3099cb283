package usecase

import (
	"context"

	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
)

// --- Input DTOs ---

// CreateGroupInput defines the data required to create a group.
// The acting user becomes the group's first ADMIN member.
type CreateGroupInput struct {
	ActingUserID uuid.UUID
	Name         string
}

// AddMemberInput defines the data required to add a member to a group.
// The target user is addressed by email.
type AddMemberInput struct {
	ActingUserID uuid.UUID
	GroupID      uuid.UUID
	Email        string
	Role         entity.MemberRole
}

// UpdateMemberRoleInput defines the data required to change a member's role.
type UpdateMemberRoleInput struct {
	ActingUserID uuid.UUID
	GroupID      uuid.UUID
	MemberID     uuid.UUID
	Role         entity.MemberRole
}

// GroupUsecase defines the interface for group membership business operations.
type GroupUsecase interface {
	// CreateGroup creates a group with the acting user as its first ADMIN.
	CreateGroup(ctx context.Context, input *CreateGroupInput) (*entity.Group, error)

	// ListGroups returns every group the acting user belongs to, annotated
	// with the caller's role and the robots the group owns.
	ListGroups(ctx context.Context, actingUserID uuid.UUID) ([]*entity.Group, error)

	// GetGroup returns one group with members and owned robots. The acting
	// user must be a member.
	GetGroup(ctx context.Context, actingUserID, groupID uuid.UUID) (*entity.Group, error)

	// AddMember adds a registered user (by email) to the group. ADMIN only.
	AddMember(ctx context.Context, input *AddMemberInput) (*entity.GroupMember, error)

	// RemoveMember removes a member and their grants on group-owned robots.
	// ADMIN only.
	RemoveMember(ctx context.Context, actingUserID, groupID, memberID uuid.UUID) error

	// UpdateMemberRole changes a member's role. ADMIN only.
	UpdateMemberRole(ctx context.Context, input *UpdateMemberRoleInput) (*entity.GroupMember, error)

	// DeleteGroup deletes the group and every robot it owns. ADMIN only.
	DeleteGroup(ctx context.Context, actingUserID, groupID uuid.UUID) error
}
