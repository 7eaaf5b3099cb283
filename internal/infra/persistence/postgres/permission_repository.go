package postgres

import (
	"context"

	"robofleet/internal/domain/entity"
	"robofleet/internal/domain/repository"
	"robofleet/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// permissionRepository implements the repository.PermissionRepository interface.
type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository is the constructor for permissionRepository.
func NewPermissionRepository(db *gorm.DB) repository.PermissionRepository {
	return &permissionRepository{
		db: db,
	}
}

// Upsert creates the (user, robot) grant or replaces its permission type.
// ON CONFLICT on the composite key keeps concurrent grants atomic.
func (repo *permissionRepository) Upsert(ctx context.Context, grant *entity.RobotPermission) error {
	grantM := fromRobotPermissionDomain(grant)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "robot_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"permission_type"}),
		}).
		Create(grantM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to upsert robot permission")
	}

	grant.CreatedAt = grantM.CreatedAt

	return nil
}

// Delete removes the (user, robot) grant.
func (repo *permissionRepository) Delete(ctx context.Context, userID, robotID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND robot_id = ?", userID, robotID).
		Delete(&model.RobotPermissionModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete robot permission")
	}

	if result.RowsAffected == 0 {
		return repository.ErrGrantNotFound
	}

	return nil
}

// DeleteByUserAndRobots removes every grant the user holds on the given robots.
func (repo *permissionRepository) DeleteByUserAndRobots(ctx context.Context, userID uuid.UUID, robotIDs []uuid.UUID) error {
	if len(robotIDs) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND robot_id IN ?", userID, robotIDs).
		Delete(&model.RobotPermissionModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete permissions by user and robots")
	}

	return nil
}

// --- Mapper Functions ---

// fromRobotPermissionDomain converts a domain RobotPermission to a GORM RobotPermissionModel.
func fromRobotPermissionDomain(data *entity.RobotPermission) *model.RobotPermissionModel {
	return &model.RobotPermissionModel{
		UserID:         data.UserID,
		RobotID:        data.RobotID,
		PermissionType: data.PermissionType.String(),
		CreatedAt:      data.CreatedAt,
	}
}
