// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
)

// ErrSettingNotFound is returned when a (user, robot) settings row is absent.
var ErrSettingNotFound = errors.New("robot setting not found")

// SettingRepository defines the interface for per-user robot settings.
type SettingRepository interface {
	// Upsert creates or replaces the settings blob for the (user, robot) pair.
	Upsert(ctx context.Context, setting *entity.RobotSetting) error

	// Find retrieves the settings row for the (user, robot) pair.
	Find(ctx context.Context, userID, robotID uuid.UUID) (*entity.RobotSetting, error)

	// FindByUser retrieves every settings row the user owns, robot identity
	// preloaded.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RobotSetting, error)
}
