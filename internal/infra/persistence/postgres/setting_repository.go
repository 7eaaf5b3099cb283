package postgres

import (
	"context"

	"robofleet/internal/domain/entity"
	"robofleet/internal/domain/repository"
	"robofleet/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingRepository implements the repository.SettingRepository interface.
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository is the constructor for settingRepository.
func NewSettingRepository(db *gorm.DB) repository.SettingRepository {
	return &settingRepository{
		db: db,
	}
}

// Upsert creates or replaces the settings blob for the (user, robot) pair.
func (repo *settingRepository) Upsert(ctx context.Context, setting *entity.RobotSetting) error {
	settingM := fromRobotSettingDomain(setting)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "robot_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_at"}),
		}).
		Create(settingM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrRobotNotFound
		}

		return errors.Wrap(err, "failed to upsert robot setting")
	}

	setting.CreatedAt = settingM.CreatedAt
	setting.UpdatedAt = settingM.UpdatedAt

	return nil
}

// Find retrieves the settings row for the (user, robot) pair.
func (repo *settingRepository) Find(ctx context.Context, userID, robotID uuid.UUID) (*entity.RobotSetting, error) {
	var settingM model.RobotSettingModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND robot_id = ?", userID, robotID).
		First(&settingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSettingNotFound
		}

		return nil, errors.Wrap(err, "failed to find robot setting")
	}

	return toRobotSettingDomain(&settingM), nil
}

// FindByUser retrieves every settings row the user owns with robot identity.
func (repo *settingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RobotSetting, error) {
	var settingModels []*model.RobotSettingModel

	if err := repo.db.WithContext(ctx).
		Preload("Robot").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&settingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find robot settings by user")
	}

	settings := make([]*entity.RobotSetting, 0, len(settingModels))
	for _, settingM := range settingModels {
		settings = append(settings, toRobotSettingDomain(settingM))
	}

	return settings, nil
}

// --- Mapper Functions ---

// toRobotSettingDomain converts a GORM RobotSettingModel to a domain RobotSetting.
func toRobotSettingDomain(data *model.RobotSettingModel) *entity.RobotSetting {
	if data == nil {
		return nil
	}

	setting := &entity.RobotSetting{
		UserID:    data.UserID,
		RobotID:   data.RobotID,
		Settings:  []byte(data.Settings),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
	if data.Robot != nil {
		setting.Robot = &entity.RobotRef{
			ID:           data.Robot.ID,
			SerialNumber: data.Robot.SerialNumber,
			Name:         data.Robot.Name,
		}
	}

	return setting
}

// fromRobotSettingDomain converts a domain RobotSetting to a GORM RobotSettingModel.
func fromRobotSettingDomain(data *entity.RobotSetting) *model.RobotSettingModel {
	return &model.RobotSettingModel{
		UserID:    data.UserID,
		RobotID:   data.RobotID,
		Settings:  datatypes.JSON(data.Settings),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
