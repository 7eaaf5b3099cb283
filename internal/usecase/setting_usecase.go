package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"robofleet/internal/domain/entity"
)

// --- Input DTOs ---

// SaveSettingsInput defines the data required to save per-user robot
// settings. Settings is an opaque JSON document.
type SaveSettingsInput struct {
	ActingUserID uuid.UUID
	SerialNumber string
	Settings     json.RawMessage
}

// SettingUsecase defines the interface for per-user robot settings.
// Every operation is scoped to the acting user; users never see each
// other's settings even on a shared robot.
type SettingUsecase interface {
	// SaveSettings upserts the acting user's settings for the robot. The
	// acting user must have access to the robot.
	SaveSettings(ctx context.Context, input *SaveSettingsInput) (*entity.RobotSetting, error)

	// GetSettings returns the acting user's settings for the robot, or an
	// empty document when none have been saved. Same access check.
	GetSettings(ctx context.Context, actingUserID uuid.UUID, serialNumber string) (*entity.RobotSetting, error)

	// ListSettings returns every settings row the acting user owns,
	// annotated with robot identity.
	ListSettings(ctx context.Context, actingUserID uuid.UUID) ([]*entity.RobotSetting, error)
}
