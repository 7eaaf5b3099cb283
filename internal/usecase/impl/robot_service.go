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

// robotService implements the RobotUsecase interface.
type robotService struct {
	robotRepo repository.RobotRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	permRepo  repository.PermissionRepository
	logger    *slog.Logger
}

// RobotServiceParams holds dependencies for robotService, injected by Fx.
type RobotServiceParams struct {
	fx.In

	RobotRepo repository.RobotRepository
	GroupRepo repository.GroupRepository
	UserRepo  repository.UserRepository
	PermRepo  repository.PermissionRepository
	Logger    *slog.Logger
}

// NewRobotService is the constructor for robotService.
func NewRobotService(params RobotServiceParams) usecase.RobotUsecase {
	return &robotService{
		robotRepo: params.RobotRepo,
		groupRepo: params.GroupRepo,
		userRepo:  params.UserRepo,
		permRepo:  params.PermRepo,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *robotService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateRobot registers a robot under the acting user or a group the acting
// user administers.
func (srv *robotService) CreateRobot(ctx context.Context, input *usecase.CreateRobotInput) (*entity.Robot, error) {
	serialNumber := strings.TrimSpace(input.SerialNumber)
	name := strings.TrimSpace(input.Name)
	if serialNumber == "" || name == "" {
		return nil, domainerrors.NewValidationError("Serial number and name are required")
	}
	if !input.OwnerType.IsValid() {
		return nil, domainerrors.NewValidationError("Owner type must be USER or GROUP")
	}

	ownerID, err := srv.resolveOwner(ctx, input)
	if err != nil {
		return nil, err
	}

	newRobot := &entity.Robot{
		SerialNumber: serialNumber,
		Name:         name,
		OwnerType:    input.OwnerType,
		OwnerID:      ownerID,
	}

	if err := srv.robotRepo.Create(ctx, newRobot); err != nil {
		if errors.Is(err, repository.ErrDuplicateSerial) {
			return nil, domainerrors.ErrSerialNumberExists
		}

		return nil, errors.Wrap(err, "failed to create robot")
	}

	srv.log(ctx).Info("Robot registered",
		slog.Any("robotID", newRobot.ID),
		slog.String("serialNumber", serialNumber),
		slog.Any("ownerType", input.OwnerType),
	)

	return newRobot, nil
}

// resolveOwner validates the requested ownership against the acting user.
func (srv *robotService) resolveOwner(ctx context.Context, input *usecase.CreateRobotInput) (uuid.UUID, error) {
	if input.OwnerType == entity.OwnerTypeUser {
		if input.OwnerID == nil || *input.OwnerID == input.ActingUserID {
			return input.ActingUserID, nil
		}

		return uuid.Nil, domainerrors.NewForbiddenError("Cannot register robots for another user")
	}

	if input.OwnerID == nil {
		return uuid.Nil, domainerrors.NewValidationError("Owner ID is required for group-owned robots")
	}

	group, err := srv.groupRepo.FindByID(ctx, *input.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return uuid.Nil, domainerrors.ErrGroupNotFound
		}

		return uuid.Nil, errors.Wrap(err, "failed to find owner group")
	}
	if !memberRoleOf(group, input.ActingUserID).IsAdminRole() {
		return uuid.Nil, domainerrors.NewForbiddenError("Only group admins can register robots for a group")
	}

	return group.ID, nil
}

// ListRobots returns every robot the acting user can reach, deduplicated,
// each annotated with the caller's resolved permission. Ownership and
// group-admin access outrank a weaker explicit grant.
func (srv *robotService) ListRobots(ctx context.Context, actingUserID uuid.UUID) ([]*usecase.RobotListItem, error) {
	owned, err := srv.robotRepo.FindOwnedByUser(ctx, actingUserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list owned robots")
	}

	adminGroupIDs, err := srv.groupRepo.FindAdminGroupIDs(ctx, actingUserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list admin groups")
	}
	groupOwned, err := srv.robotRepo.FindOwnedByGroups(ctx, adminGroupIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list group robots")
	}

	granted, err := srv.robotRepo.FindGrantedToUser(ctx, actingUserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list granted robots")
	}

	admin := entity.PermissionAdmin
	seen := make(map[uuid.UUID]struct{})
	items := make([]*usecase.RobotListItem, 0, len(owned)+len(groupOwned)+len(granted))

	for _, robot := range owned {
		seen[robot.ID] = struct{}{}
		items = append(items, &usecase.RobotListItem{Robot: robot, UserPermission: &admin})
	}
	for _, robot := range groupOwned {
		if _, ok := seen[robot.ID]; ok {
			continue
		}
		seen[robot.ID] = struct{}{}
		items = append(items, &usecase.RobotListItem{Robot: robot, UserPermission: &admin})
	}
	for _, robot := range granted {
		if _, ok := seen[robot.ID]; ok {
			continue
		}
		seen[robot.ID] = struct{}{}

		var permission *entity.PermissionType
		if grant := robot.GrantFor(actingUserID); grant != nil {
			permissionType := grant.PermissionType
			permission = &permissionType
		}
		items = append(items, &usecase.RobotListItem{Robot: robot, UserPermission: permission})
	}

	return items, nil
}

// GetRobotBySerial returns the robot detail with grants, resolved owner and
// the caller's permission level.
func (srv *robotService) GetRobotBySerial(ctx context.Context, actingUserID uuid.UUID, serialNumber string) (*usecase.RobotDetail, error) {
	robot, err := loadRobotBySerial(ctx, srv.robotRepo, serialNumber)
	if err != nil {
		return nil, err
	}

	resolution, err := resolveRobotAccess(ctx, srv.groupRepo, actingUserID, robot)
	if err != nil {
		return nil, err
	}
	if !resolution.HasAccess {
		return nil, domainerrors.ErrAccessDenied
	}

	detail := &usecase.RobotDetail{
		Robot:          robot,
		UserPermission: resolution.Permission(),
	}

	switch robot.OwnerType {
	case entity.OwnerTypeUser:
		owner, err := srv.userRepo.FindByID(ctx, robot.OwnerID)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(err, "failed to load robot owner")
		}
		detail.OwnerUser = owner.Public()
	case entity.OwnerTypeGroup:
		group, err := srv.groupRepo.FindByID(ctx, robot.OwnerID)
		if err != nil && !errors.Is(err, repository.ErrGroupNotFound) {
			return nil, errors.Wrap(err, "failed to load owner group")
		}
		detail.OwnerGroup = group
	}

	return detail, nil
}

// DeleteRobot removes the robot. Only the direct owner or an admin of the
// owning group may delete; an explicit ADMIN grant is not enough.
func (srv *robotService) DeleteRobot(ctx context.Context, actingUserID uuid.UUID, serialNumber string) error {
	robot, err := loadRobotBySerial(ctx, srv.robotRepo, serialNumber)
	if err != nil {
		return err
	}

	canDelete := robot.OwnedByUser(actingUserID)
	if !canDelete && robot.OwnerType == entity.OwnerTypeGroup {
		membership, err := srv.groupRepo.FindMembership(ctx, actingUserID, robot.OwnerID)
		if err != nil && !errors.Is(err, repository.ErrMembershipNotFound) {
			return errors.Wrap(err, "failed to find group membership")
		}
		canDelete = membership.IsAdmin()
	}
	if !canDelete {
		return domainerrors.ErrAccessDenied
	}

	if err := srv.robotRepo.Delete(ctx, robot.ID); err != nil {
		if errors.Is(err, repository.ErrRobotNotFound) {
			return domainerrors.ErrRobotNotFound
		}

		return errors.Wrap(err, "failed to delete robot")
	}

	srv.log(ctx).Info("Robot deleted", slog.Any("robotID", robot.ID), slog.String("serialNumber", serialNumber))

	return nil
}

// GrantPermission upserts a (user, robot) grant. Re-granting to an existing
// grantee replaces the permission type.
func (srv *robotService) GrantPermission(ctx context.Context, input *usecase.GrantPermissionInput) (*entity.RobotPermission, error) {
	if input.TargetUserID == nil && input.TargetEmail == "" {
		return nil, domainerrors.NewValidationError("Target user ID or email is required")
	}
	if !input.PermissionType.IsValid() {
		return nil, domainerrors.NewValidationError("Permission type must be USAGE or ADMIN")
	}

	robot, err := loadRobotBySerial(ctx, srv.robotRepo, input.SerialNumber)
	if err != nil {
		return nil, err
	}

	if err := srv.requireRobotAdmin(ctx, input.ActingUserID, robot); err != nil {
		return nil, err
	}

	targetUser, err := srv.resolveTargetUser(ctx, input.TargetUserID, input.TargetEmail)
	if err != nil {
		return nil, err
	}

	grant := &entity.RobotPermission{
		UserID:         targetUser.ID,
		RobotID:        robot.ID,
		PermissionType: input.PermissionType,
	}
	if err := srv.permRepo.Upsert(ctx, grant); err != nil {
		return nil, errors.Wrap(err, "failed to upsert permission grant")
	}
	grant.User = targetUser.Public()

	srv.log(ctx).Info("Permission granted",
		slog.Any("robotID", robot.ID),
		slog.Any("userID", targetUser.ID),
		slog.Any("permissionType", input.PermissionType),
	)

	return grant, nil
}

// RevokePermission removes a (user, robot) grant. Revoking a grant that does
// not exist is a 404.
func (srv *robotService) RevokePermission(ctx context.Context, actingUserID uuid.UUID, serialNumber string, targetUserID uuid.UUID) error {
	robot, err := loadRobotBySerial(ctx, srv.robotRepo, serialNumber)
	if err != nil {
		return err
	}

	if err := srv.requireRobotAdmin(ctx, actingUserID, robot); err != nil {
		return err
	}

	if err := srv.permRepo.Delete(ctx, targetUserID, robot.ID); err != nil {
		if errors.Is(err, repository.ErrGrantNotFound) {
			return domainerrors.ErrPermissionNotFound
		}

		return errors.Wrap(err, "failed to delete permission grant")
	}

	srv.log(ctx).Info("Permission revoked", slog.Any("robotID", robot.ID), slog.Any("userID", targetUserID))

	return nil
}

// requireRobotAdmin enforces admin-level access per the resolution rules:
// owner, admin of the owning group, or an explicit ADMIN grant.
func (srv *robotService) requireRobotAdmin(ctx context.Context, userID uuid.UUID, robot *entity.Robot) error {
	resolution, err := resolveRobotAccess(ctx, srv.groupRepo, userID, robot)
	if err != nil {
		return err
	}
	if !resolution.IsAdmin {
		return domainerrors.NewForbiddenError("Only robot admins can manage permissions")
	}

	return nil
}

func (srv *robotService) resolveTargetUser(ctx context.Context, targetUserID *uuid.UUID, targetEmail string) (*entity.User, error) {
	var (
		targetUser *entity.User
		err        error
	)

	if targetUserID != nil {
		targetUser, err = srv.userRepo.FindByID(ctx, *targetUserID)
	} else {
		targetUser, err = srv.userRepo.FindByEmail(ctx, normalizeEmail(targetEmail))
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to resolve target user")
	}

	return targetUser, nil
}
