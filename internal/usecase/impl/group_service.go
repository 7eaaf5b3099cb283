package impl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "robofleet/internal/delivery/context"
	"robofleet/internal/domain/entity"
	domainerrors "robofleet/internal/domain/errors"
	"robofleet/internal/domain/repository"
	"robofleet/internal/usecase"
)

// groupService implements the GroupUsecase interface.
type groupService struct {
	txManager repository.TransactionManager
	groupRepo repository.GroupRepository
	robotRepo repository.RobotRepository
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// GroupServiceParams holds dependencies for groupService, injected by Fx.
type GroupServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	GroupRepo repository.GroupRepository
	RobotRepo repository.RobotRepository
	UserRepo  repository.UserRepository
	Logger    *slog.Logger
}

// NewGroupService is the constructor for groupService.
func NewGroupService(params GroupServiceParams) usecase.GroupUsecase {
	return &groupService{
		txManager: params.TxManager,
		groupRepo: params.GroupRepo,
		robotRepo: params.RobotRepo,
		userRepo:  params.UserRepo,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *groupService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateGroup creates a group with the acting user as its first ADMIN member.
func (srv *groupService) CreateGroup(ctx context.Context, input *usecase.CreateGroupInput) (*entity.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.NewValidationError("Group name is required")
	}

	newGroup := &entity.Group{
		Name: name,
		Members: []entity.GroupMember{
			{UserID: input.ActingUserID, Role: entity.RoleAdmin},
		},
	}

	if err := srv.groupRepo.Create(ctx, newGroup); err != nil {
		return nil, errors.Wrap(err, "failed to create group")
	}

	// Reload to pick up member identities.
	created, err := srv.groupRepo.FindByID(ctx, newGroup.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load created group")
	}
	created.UserRole = entity.RoleAdmin

	srv.log(ctx).Info("Group created", slog.Any("groupID", created.ID), slog.Any("userID", input.ActingUserID))

	return created, nil
}

// ListGroups returns every group the acting user belongs to, annotated with
// the caller's role and the robots each group owns.
func (srv *groupService) ListGroups(ctx context.Context, actingUserID uuid.UUID) ([]*entity.Group, error) {
	groups, err := srv.groupRepo.FindByMember(ctx, actingUserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list groups")
	}

	if len(groups) == 0 {
		return groups, nil
	}

	groupIDs := make([]uuid.UUID, 0, len(groups))
	for _, group := range groups {
		groupIDs = append(groupIDs, group.ID)
	}

	robots, err := srv.robotRepo.FindOwnedByGroups(ctx, groupIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load group robots")
	}

	robotsByGroup := make(map[uuid.UUID][]entity.Robot, len(groups))
	for _, robot := range robots {
		robotsByGroup[robot.OwnerID] = append(robotsByGroup[robot.OwnerID], *robot)
	}

	for _, group := range groups {
		group.UserRole = memberRoleOf(group, actingUserID)
		group.Robots = robotsByGroup[group.ID]
	}

	return groups, nil
}

// GetGroup returns one group with members and owned robots. Non-members get
// a 404 rather than a 403 so group existence is not leaked.
func (srv *groupService) GetGroup(ctx context.Context, actingUserID, groupID uuid.UUID) (*entity.Group, error) {
	group, err := srv.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	role := memberRoleOf(group, actingUserID)
	if role == "" {
		return nil, domainerrors.ErrGroupNotFound
	}
	group.UserRole = role

	robots, err := srv.robotRepo.FindOwnedByGroups(ctx, []uuid.UUID{group.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load group robots")
	}
	group.Robots = make([]entity.Robot, 0, len(robots))
	for _, robot := range robots {
		group.Robots = append(group.Robots, *robot)
	}

	return group, nil
}

// AddMember adds a registered user to the group by email.
func (srv *groupService) AddMember(ctx context.Context, input *usecase.AddMemberInput) (*entity.GroupMember, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, domainerrors.NewValidationError("Email is required")
	}

	role := input.Role
	if role == "" {
		role = entity.RoleMember
	}
	if !role.IsValid() {
		return nil, domainerrors.NewValidationError("Role must be ADMIN or MEMBER")
	}

	group, err := srv.loadGroup(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}
	if !memberRoleOf(group, input.ActingUserID).IsAdminRole() {
		return nil, domainerrors.NewForbiddenError("Only group admins can add members")
	}

	targetUser, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	member := &entity.GroupMember{
		UserID:  targetUser.ID,
		GroupID: group.ID,
		Role:    role,
	}
	if err := srv.groupRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicateMember) {
			return nil, domainerrors.ErrAlreadyMember
		}

		return nil, errors.Wrap(err, "failed to add group member")
	}
	member.User = targetUser.Public()

	srv.log(ctx).Info("Group member added",
		slog.Any("groupID", group.ID),
		slog.Any("userID", targetUser.ID),
		slog.Any("role", role),
	)

	return member, nil
}

// RemoveMember deletes the membership together with every grant the member
// holds on robots owned by the group, in one transaction.
func (srv *groupService) RemoveMember(ctx context.Context, actingUserID, groupID, memberID uuid.UUID) error {
	group, err := srv.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !memberRoleOf(group, actingUserID).IsAdminRole() {
		return domainerrors.NewForbiddenError("Only group admins can remove members")
	}
	if memberRoleOf(group, memberID) == "" {
		return domainerrors.ErrMemberNotFound
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		robots, err := repoFactory.RobotRepo().FindOwnedByGroups(ctx, []uuid.UUID{groupID})
		if err != nil {
			return errors.Wrap(err, "failed to load group robots")
		}

		robotIDs := make([]uuid.UUID, 0, len(robots))
		for _, robot := range robots {
			robotIDs = append(robotIDs, robot.ID)
		}

		if err := repoFactory.PermissionRepo().DeleteByUserAndRobots(ctx, memberID, robotIDs); err != nil {
			return errors.Wrap(err, "failed to delete member grants")
		}

		if err := repoFactory.GroupRepo().RemoveMember(ctx, memberID, groupID); err != nil {
			if errors.Is(err, repository.ErrMembershipNotFound) {
				return domainerrors.ErrMemberNotFound
			}

			return errors.Wrap(err, "failed to remove group member")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to remove group member",
			slog.Any("groupID", groupID),
			slog.Any("userID", memberID),
			slog.Any("error", err),
		)

		return err
	}

	srv.log(ctx).Info("Group member removed", slog.Any("groupID", groupID), slog.Any("userID", memberID))

	return nil
}

// UpdateMemberRole changes a member's role. Demoting the last admin is
// allowed and leaves the group unmanageable.
func (srv *groupService) UpdateMemberRole(ctx context.Context, input *usecase.UpdateMemberRoleInput) (*entity.GroupMember, error) {
	if !input.Role.IsValid() {
		return nil, domainerrors.NewValidationError("Role must be ADMIN or MEMBER")
	}

	group, err := srv.loadGroup(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}
	if !memberRoleOf(group, input.ActingUserID).IsAdminRole() {
		return nil, domainerrors.NewForbiddenError("Only group admins can update member roles")
	}

	if err := srv.groupRepo.UpdateMemberRole(ctx, input.MemberID, input.GroupID, input.Role); err != nil {
		if errors.Is(err, repository.ErrMembershipNotFound) {
			return nil, domainerrors.ErrMemberNotFound
		}

		return nil, errors.Wrap(err, "failed to update member role")
	}

	member, err := srv.groupRepo.FindMembership(ctx, input.MemberID, input.GroupID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load updated membership")
	}

	srv.log(ctx).Info("Member role updated",
		slog.Any("groupID", input.GroupID),
		slog.Any("userID", input.MemberID),
		slog.Any("role", input.Role),
	)

	return member, nil
}

// DeleteGroup deletes the group and every robot it owns in one transaction.
// Robot grants and settings cascade with the robots, memberships with the
// group.
func (srv *groupService) DeleteGroup(ctx context.Context, actingUserID, groupID uuid.UUID) error {
	group, err := srv.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !memberRoleOf(group, actingUserID).IsAdminRole() {
		return domainerrors.NewForbiddenError("Only group admins can delete groups")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		deleted, err := repoFactory.RobotRepo().DeleteOwnedByGroup(ctx, groupID)
		if err != nil {
			return errors.Wrap(err, "failed to delete group robots")
		}
		srv.log(ctx).Debug("Deleted group robots", slog.Any("groupID", groupID), slog.Int64("count", deleted))

		if err := repoFactory.GroupRepo().Delete(ctx, groupID); err != nil {
			if errors.Is(err, repository.ErrGroupNotFound) {
				return domainerrors.ErrGroupNotFound
			}

			return errors.Wrap(err, "failed to delete group")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete group", slog.Any("groupID", groupID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Group deleted", slog.Any("groupID", groupID), slog.Any("userID", actingUserID))

	return nil
}

func (srv *groupService) loadGroup(ctx context.Context, groupID uuid.UUID) (*entity.Group, error) {
	group, err := srv.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, domainerrors.ErrGroupNotFound
		}

		return nil, errors.Wrap(err, "failed to find group")
	}

	return group, nil
}

// memberRoleOf returns the user's role in the group, or "" when the user is
// not a member. Members must have been preloaded.
func memberRoleOf(group *entity.Group, userID uuid.UUID) entity.MemberRole {
	for i := range group.Members {
		if group.Members[i].UserID == userID {
			return group.Members[i].Role
		}
	}

	return ""
}
