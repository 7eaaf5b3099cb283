// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
)

// Domain-specific errors for group persistence.
var (
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrMembershipNotFound is returned when a (user, group) membership row is absent.
	ErrMembershipNotFound = errors.New("group membership not found")
	// ErrDuplicateMember is returned when adding a user who is already a member.
	ErrDuplicateMember = errors.New("user is already a member of this group")
)

// GroupRepository defines the interface for group and membership persistence.
type GroupRepository interface {
	// Create persists a new group together with its initial memberships.
	Create(ctx context.Context, group *entity.Group) error

	// FindByID retrieves a group with its members (member identities preloaded).
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)

	// FindByMember retrieves all groups where the user holds any membership,
	// members preloaded.
	FindByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Group, error)

	// Delete removes a group; memberships cascade at the schema level.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindMembership retrieves the (user, group) membership row.
	FindMembership(ctx context.Context, userID, groupID uuid.UUID) (*entity.GroupMember, error)

	// FindAdminGroupIDs retrieves the IDs of all groups where the user is an ADMIN.
	FindAdminGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// AddMember persists a new membership row.
	AddMember(ctx context.Context, member *entity.GroupMember) error

	// RemoveMember deletes the (user, group) membership row.
	RemoveMember(ctx context.Context, userID, groupID uuid.UUID) error

	// UpdateMemberRole changes the role on an existing membership row.
	UpdateMemberRole(ctx context.Context, userID, groupID uuid.UUID, role entity.MemberRole) error
}
