// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
)

// ErrGrantNotFound is returned when a (user, robot) permission row is absent.
var ErrGrantNotFound = errors.New("permission grant not found")

// PermissionRepository defines the interface for explicit permission grants.
type PermissionRepository interface {
	// Upsert creates the (user, robot) grant or replaces its permission type.
	// The unique constraint on the pair makes the write atomic under
	// concurrent grants.
	Upsert(ctx context.Context, grant *entity.RobotPermission) error

	// Delete removes the (user, robot) grant. Returns ErrGrantNotFound when
	// no row was removed.
	Delete(ctx context.Context, userID, robotID uuid.UUID) error

	// DeleteByUserAndRobots removes every grant the user holds on the given
	// robots. Used when a member leaves a group.
	DeleteByUserAndRobots(ctx context.Context, userID uuid.UUID, robotIDs []uuid.UUID) error
}
