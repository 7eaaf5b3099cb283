package postgres

import (
	"context"

	"robofleet/internal/domain/entity"
	"robofleet/internal/domain/repository"
	"robofleet/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// robotRepository implements the repository.RobotRepository interface.
type robotRepository struct {
	db *gorm.DB
}

// NewRobotRepository is the constructor for robotRepository.
func NewRobotRepository(db *gorm.DB) repository.RobotRepository {
	return &robotRepository{
		db: db,
	}
}

// Create persists a new robot.
func (repo *robotRepository) Create(ctx context.Context, robot *entity.Robot) error {
	robotM := fromRobotDomain(robot)

	if err := repo.db.WithContext(ctx).Create(robotM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateSerial
		}

		return errors.Wrap(err, "failed to create robot")
	}

	// Update the entity with generated values
	robot.ID = robotM.ID
	robot.CreatedAt = robotM.CreatedAt

	return nil
}

// FindBySerial retrieves a robot by serial number, grants and grantee
// identities preloaded.
func (repo *robotRepository) FindBySerial(ctx context.Context, serialNumber string) (*entity.Robot, error) {
	var robotM model.RobotModel

	if err := repo.db.WithContext(ctx).
		Preload("Permissions.User").
		Where("serial_number = ?", serialNumber).
		First(&robotM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRobotNotFound
		}

		return nil, errors.Wrap(err, "failed to find robot by serial number")
	}

	return toRobotDomain(&robotM), nil
}

// FindOwnedByUser retrieves all robots directly owned by the user.
func (repo *robotRepository) FindOwnedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Robot, error) {
	var robotModels []*model.RobotModel

	if err := repo.db.WithContext(ctx).
		Preload("Permissions.User").
		Where("owner_type = ? AND owner_id = ?", entity.OwnerTypeUser.String(), userID).
		Order("created_at DESC").
		Find(&robotModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find robots owned by user")
	}

	return toRobotDomainSlice(robotModels), nil
}

// FindOwnedByGroups retrieves all robots owned by any of the given groups.
func (repo *robotRepository) FindOwnedByGroups(ctx context.Context, groupIDs []uuid.UUID) ([]*entity.Robot, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	var robotModels []*model.RobotModel

	if err := repo.db.WithContext(ctx).
		Preload("Permissions.User").
		Where("owner_type = ? AND owner_id IN ?", entity.OwnerTypeGroup.String(), groupIDs).
		Order("created_at DESC").
		Find(&robotModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find robots owned by groups")
	}

	return toRobotDomainSlice(robotModels), nil
}

// FindGrantedToUser retrieves all robots carrying an explicit permission
// grant for the user.
func (repo *robotRepository) FindGrantedToUser(ctx context.Context, userID uuid.UUID) ([]*entity.Robot, error) {
	var robotModels []*model.RobotModel

	if err := repo.db.WithContext(ctx).
		Preload("Permissions.User").
		Joins("JOIN robot_permissions rp ON rp.robot_id = robots.id").
		Where("rp.user_id = ?", userID).
		Order("robots.created_at DESC").
		Find(&robotModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find robots granted to user")
	}

	return toRobotDomainSlice(robotModels), nil
}

// Delete removes a robot. Grants and settings cascade at the schema level.
func (repo *robotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.RobotModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete robot")
	}

	if result.RowsAffected == 0 {
		return repository.ErrRobotNotFound
	}

	return nil
}

// DeleteOwnedByGroup removes every robot owned by the group.
func (repo *robotRepository) DeleteOwnedByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", entity.OwnerTypeGroup.String(), groupID).
		Delete(&model.RobotModel{})

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete robots owned by group")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toRobotDomain converts a GORM RobotModel to a domain Robot entity.
func toRobotDomain(data *model.RobotModel) *entity.Robot {
	if data == nil {
		return nil
	}

	permissions := make([]entity.RobotPermission, 0, len(data.Permissions))
	for i := range data.Permissions {
		permissions = append(permissions, toRobotPermissionDomain(&data.Permissions[i]))
	}

	return &entity.Robot{
		ID:           data.ID,
		SerialNumber: data.SerialNumber,
		Name:         data.Name,
		OwnerType:    entity.OwnerType(data.OwnerType),
		OwnerID:      data.OwnerID,
		Permissions:  permissions,
		CreatedAt:    data.CreatedAt,
	}
}

func toRobotDomainSlice(robotModels []*model.RobotModel) []*entity.Robot {
	robots := make([]*entity.Robot, 0, len(robotModels))
	for _, robotM := range robotModels {
		robots = append(robots, toRobotDomain(robotM))
	}

	return robots
}

// fromRobotDomain converts a domain Robot entity to a GORM RobotModel.
func fromRobotDomain(data *entity.Robot) *model.RobotModel {
	if data == nil {
		return nil
	}

	return &model.RobotModel{
		ID:           data.ID,
		SerialNumber: data.SerialNumber,
		Name:         data.Name,
		OwnerType:    data.OwnerType.String(),
		OwnerID:      data.OwnerID,
		CreatedAt:    data.CreatedAt,
	}
}

// toRobotPermissionDomain converts a GORM RobotPermissionModel to a domain RobotPermission.
func toRobotPermissionDomain(data *model.RobotPermissionModel) entity.RobotPermission {
	grant := entity.RobotPermission{
		UserID:         data.UserID,
		RobotID:        data.RobotID,
		PermissionType: entity.PermissionType(data.PermissionType),
		CreatedAt:      data.CreatedAt,
	}
	if data.User != nil {
		grant.User = toUserDomain(data.User).Public()
	}

	return grant
}
