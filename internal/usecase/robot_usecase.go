package usecase

import (
	"context"

	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
)

// --- Input DTOs ---

// CreateRobotInput defines the data required to register a robot.
// OwnerID may be nil for OwnerType USER, in which case ownership defaults
// to the acting user.
type CreateRobotInput struct {
	ActingUserID uuid.UUID
	SerialNumber string
	Name         string
	OwnerType    entity.OwnerType
	OwnerID      *uuid.UUID
}

// GrantPermissionInput defines the data required to grant or replace a
// permission. The target is addressed by user ID or email; exactly one must
// be set.
type GrantPermissionInput struct {
	ActingUserID   uuid.UUID
	SerialNumber   string
	TargetUserID   *uuid.UUID
	TargetEmail    string
	PermissionType entity.PermissionType
}

// --- Output DTOs ---

// RobotListItem pairs a robot with the caller's resolved permission level.
type RobotListItem struct {
	Robot          *entity.Robot
	UserPermission *entity.PermissionType
}

// RobotDetail is the full robot view: grants, resolved owner and the
// caller's permission level. Exactly one of OwnerUser / OwnerGroup is set.
type RobotDetail struct {
	Robot          *entity.Robot
	OwnerUser      *entity.PublicUser
	OwnerGroup     *entity.Group
	UserPermission *entity.PermissionType
}

// RobotUsecase defines the interface for robot registry business operations.
type RobotUsecase interface {
	// CreateRobot registers a robot under the acting user or a group the
	// acting user administers.
	CreateRobot(ctx context.Context, input *CreateRobotInput) (*entity.Robot, error)

	// ListRobots returns every robot the acting user can reach — owned,
	// administered via group, or explicitly granted — deduplicated, each
	// annotated with the caller's resolved permission.
	ListRobots(ctx context.Context, actingUserID uuid.UUID) ([]*RobotListItem, error)

	// GetRobotBySerial returns the robot detail. The acting user must have
	// access per the resolution rules.
	GetRobotBySerial(ctx context.Context, actingUserID uuid.UUID, serialNumber string) (*RobotDetail, error)

	// DeleteRobot removes the robot and its grants and settings. Owner or
	// group-admin only.
	DeleteRobot(ctx context.Context, actingUserID uuid.UUID, serialNumber string) error

	// GrantPermission upserts a (user, robot) grant. Robot admins only.
	GrantPermission(ctx context.Context, input *GrantPermissionInput) (*entity.RobotPermission, error)

	// RevokePermission removes a (user, robot) grant. Robot admins only.
	RevokePermission(ctx context.Context, actingUserID uuid.UUID, serialNumber string, targetUserID uuid.UUID) error
}
