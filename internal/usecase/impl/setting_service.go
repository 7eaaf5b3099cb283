package impl

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "robofleet/internal/delivery/context"
	"robofleet/internal/domain/entity"
	domainerrors "robofleet/internal/domain/errors"
	"robofleet/internal/domain/repository"
	"robofleet/internal/usecase"
)

// settingService implements the SettingUsecase interface.
type settingService struct {
	settingRepo repository.SettingRepository
	robotRepo   repository.RobotRepository
	groupRepo   repository.GroupRepository
	logger      *slog.Logger
}

// SettingServiceParams holds dependencies for settingService, injected by Fx.
type SettingServiceParams struct {
	fx.In

	SettingRepo repository.SettingRepository
	RobotRepo   repository.RobotRepository
	GroupRepo   repository.GroupRepository
	Logger      *slog.Logger
}

// NewSettingService is the constructor for settingService.
func NewSettingService(params SettingServiceParams) usecase.SettingUsecase {
	return &settingService{
		settingRepo: params.SettingRepo,
		robotRepo:   params.RobotRepo,
		groupRepo:   params.GroupRepo,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *settingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SaveSettings upserts the acting user's settings document for the robot.
func (srv *settingService) SaveSettings(ctx context.Context, input *usecase.SaveSettingsInput) (*entity.RobotSetting, error) {
	if len(input.Settings) == 0 {
		return nil, domainerrors.NewValidationError("Settings payload is required")
	}
	if !json.Valid(input.Settings) {
		return nil, domainerrors.NewValidationError("Settings payload must be valid JSON")
	}

	robot, err := srv.requireAccess(ctx, input.ActingUserID, input.SerialNumber)
	if err != nil {
		return nil, err
	}

	setting := &entity.RobotSetting{
		UserID:   input.ActingUserID,
		RobotID:  robot.ID,
		Settings: input.Settings,
	}
	if err := srv.settingRepo.Upsert(ctx, setting); err != nil {
		return nil, errors.Wrap(err, "failed to upsert robot setting")
	}

	srv.log(ctx).Debug("Robot settings saved",
		slog.Any("robotID", robot.ID),
		slog.Any("userID", input.ActingUserID),
	)

	return setting, nil
}

// GetSettings returns the acting user's settings for the robot. A missing
// row is not an error: the caller gets an empty document.
func (srv *settingService) GetSettings(ctx context.Context, actingUserID uuid.UUID, serialNumber string) (*entity.RobotSetting, error) {
	robot, err := srv.requireAccess(ctx, actingUserID, serialNumber)
	if err != nil {
		return nil, err
	}

	setting, err := srv.settingRepo.Find(ctx, actingUserID, robot.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingNotFound) {
			return &entity.RobotSetting{
				UserID:   actingUserID,
				RobotID:  robot.ID,
				Settings: json.RawMessage("{}"),
			}, nil
		}

		return nil, errors.Wrap(err, "failed to find robot setting")
	}

	return setting, nil
}

// ListSettings returns every settings row the acting user owns.
func (srv *settingService) ListSettings(ctx context.Context, actingUserID uuid.UUID) ([]*entity.RobotSetting, error) {
	settings, err := srv.settingRepo.FindByUser(ctx, actingUserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list robot settings")
	}

	return settings, nil
}

// requireAccess loads the robot and enforces the caller's access to it.
func (srv *settingService) requireAccess(ctx context.Context, userID uuid.UUID, serialNumber string) (*entity.Robot, error) {
	robot, err := loadRobotBySerial(ctx, srv.robotRepo, serialNumber)
	if err != nil {
		return nil, err
	}

	resolution, err := resolveRobotAccess(ctx, srv.groupRepo, userID, robot)
	if err != nil {
		return nil, err
	}
	if !resolution.HasAccess {
		return nil, domainerrors.ErrAccessDenied
	}

	return robot, nil
}
