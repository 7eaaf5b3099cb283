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

// groupRepository implements the repository.GroupRepository interface.
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository is the constructor for groupRepository.
func NewGroupRepository(db *gorm.DB) repository.GroupRepository {
	return &groupRepository{
		db: db,
	}
}

// Create persists a new group together with its initial memberships.
func (repo *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	groupM := fromGroupDomain(group)

	if err := repo.db.WithContext(ctx).Create(groupM).Error; err != nil {
		return errors.Wrap(err, "failed to create group")
	}

	// Update the entity with generated values
	group.ID = groupM.ID
	group.CreatedAt = groupM.CreatedAt
	for i := range group.Members {
		group.Members[i].GroupID = groupM.ID
		group.Members[i].CreatedAt = groupM.Members[i].CreatedAt
	}

	return nil
}

// FindByID retrieves a group with its members and their identities.
func (repo *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	var groupM model.GroupModel

	if err := repo.db.WithContext(ctx).
		Preload("Members.User").
		Where("id = ?", id).
		First(&groupM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGroupNotFound
		}

		return nil, errors.Wrap(err, "failed to find group by ID")
	}

	return toGroupDomain(&groupM), nil
}

// FindByMember retrieves all groups where the user holds any membership.
func (repo *groupRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Group, error) {
	var groupModels []*model.GroupModel

	if err := repo.db.WithContext(ctx).
		Preload("Members.User").
		Joins("JOIN group_members gm ON gm.group_id = user_groups.id").
		Where("gm.user_id = ?", userID).
		Order("user_groups.created_at DESC").
		Find(&groupModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find groups by member")
	}

	groups := make([]*entity.Group, 0, len(groupModels))
	for _, groupM := range groupModels {
		groups = append(groups, toGroupDomain(groupM))
	}

	return groups, nil
}

// Delete removes a group. Membership rows cascade at the schema level.
func (repo *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.GroupModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete group")
	}

	if result.RowsAffected == 0 {
		return repository.ErrGroupNotFound
	}

	return nil
}

// FindMembership retrieves the (user, group) membership row.
func (repo *groupRepository) FindMembership(ctx context.Context, userID, groupID uuid.UUID) (*entity.GroupMember, error) {
	var memberM model.GroupMemberModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		First(&memberM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMembershipNotFound
		}

		return nil, errors.Wrap(err, "failed to find group membership")
	}

	member := toGroupMemberDomain(&memberM)

	return &member, nil
}

// FindAdminGroupIDs retrieves the IDs of all groups where the user is an ADMIN.
func (repo *groupRepository) FindAdminGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var groupIDs []uuid.UUID

	if err := repo.db.WithContext(ctx).
		Model(&model.GroupMemberModel{}).
		Where("user_id = ? AND role = ?", userID, entity.RoleAdmin.String()).
		Pluck("group_id", &groupIDs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find admin group IDs")
	}

	return groupIDs, nil
}

// AddMember persists a new membership row.
func (repo *groupRepository) AddMember(ctx context.Context, member *entity.GroupMember) error {
	memberM := fromGroupMemberDomain(member)

	if err := repo.db.WithContext(ctx).Create(memberM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateMember
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to add group member")
	}

	member.CreatedAt = memberM.CreatedAt

	return nil
}

// RemoveMember deletes the (user, group) membership row.
func (repo *groupRepository) RemoveMember(ctx context.Context, userID, groupID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&model.GroupMemberModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to remove group member")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMembershipNotFound
	}

	return nil
}

// UpdateMemberRole changes the role on an existing membership row.
func (repo *groupRepository) UpdateMemberRole(ctx context.Context, userID, groupID uuid.UUID, role entity.MemberRole) error {
	result := repo.db.WithContext(ctx).
		Model(&model.GroupMemberModel{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Update("role", role.String())

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update member role")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMembershipNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toGroupDomain converts a GORM GroupModel to a domain Group entity.
func toGroupDomain(data *model.GroupModel) *entity.Group {
	if data == nil {
		return nil
	}

	members := make([]entity.GroupMember, 0, len(data.Members))
	for i := range data.Members {
		members = append(members, toGroupMemberDomain(&data.Members[i]))
	}

	return &entity.Group{
		ID:        data.ID,
		Name:      data.Name,
		Members:   members,
		CreatedAt: data.CreatedAt,
	}
}

// fromGroupDomain converts a domain Group entity to a GORM GroupModel.
func fromGroupDomain(data *entity.Group) *model.GroupModel {
	if data == nil {
		return nil
	}

	members := make([]model.GroupMemberModel, 0, len(data.Members))
	for i := range data.Members {
		members = append(members, *fromGroupMemberDomain(&data.Members[i]))
	}

	return &model.GroupModel{
		ID:        data.ID,
		Name:      data.Name,
		Members:   members,
		CreatedAt: data.CreatedAt,
	}
}

// toGroupMemberDomain converts a GORM GroupMemberModel to a domain GroupMember.
func toGroupMemberDomain(data *model.GroupMemberModel) entity.GroupMember {
	member := entity.GroupMember{
		UserID:    data.UserID,
		GroupID:   data.GroupID,
		Role:      entity.MemberRole(data.Role),
		CreatedAt: data.CreatedAt,
	}
	if data.User != nil {
		member.User = toUserDomain(data.User).Public()
	}

	return member
}

// fromGroupMemberDomain converts a domain GroupMember to a GORM GroupMemberModel.
func fromGroupMemberDomain(data *entity.GroupMember) *model.GroupMemberModel {
	return &model.GroupMemberModel{
		UserID:    data.UserID,
		GroupID:   data.GroupID,
		Role:      data.Role.String(),
		CreatedAt: data.CreatedAt,
	}
}
