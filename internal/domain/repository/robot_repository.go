// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
)

// Domain-specific errors for robot persistence.
var (
	// ErrRobotNotFound is returned when a robot is not found.
	ErrRobotNotFound = errors.New("robot not found")
	// ErrDuplicateSerial is returned when creating a robot whose serial number exists.
	ErrDuplicateSerial = errors.New("serial number already exists")
)

// RobotRepository defines the interface for robot persistence.
type RobotRepository interface {
	// Create persists a new robot.
	Create(ctx context.Context, robot *entity.Robot) error

	// FindBySerial retrieves a robot by serial number, permissions preloaded.
	FindBySerial(ctx context.Context, serialNumber string) (*entity.Robot, error)

	// FindOwnedByUser retrieves all robots directly owned by the user,
	// permissions preloaded.
	FindOwnedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Robot, error)

	// FindOwnedByGroups retrieves all robots owned by any of the given groups,
	// permissions preloaded.
	FindOwnedByGroups(ctx context.Context, groupIDs []uuid.UUID) ([]*entity.Robot, error)

	// FindGrantedToUser retrieves all robots carrying an explicit permission
	// grant for the user, permissions preloaded.
	FindGrantedToUser(ctx context.Context, userID uuid.UUID) ([]*entity.Robot, error)

	// Delete removes a robot; its grants and settings cascade at the schema level.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteOwnedByGroup removes every robot owned by the group and returns
	// the number of rows removed; grants and settings cascade.
	DeleteOwnedByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
}
