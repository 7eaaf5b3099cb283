package impl

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"robofleet/internal/domain/access"
	"robofleet/internal/domain/entity"
	domainerrors "robofleet/internal/domain/errors"
	"robofleet/internal/domain/repository"
)

// loadRobotBySerial fetches a robot with its grants, translating the
// repository sentinel into the API's 404.
func loadRobotBySerial(ctx context.Context, robotRepo repository.RobotRepository, serialNumber string) (*entity.Robot, error) {
	robot, err := robotRepo.FindBySerial(ctx, serialNumber)
	if err != nil {
		if errors.Is(err, repository.ErrRobotNotFound) {
			return nil, domainerrors.ErrRobotNotFound
		}

		return nil, errors.Wrap(err, "failed to find robot by serial number")
	}

	return robot, nil
}

// resolveRobotAccess combines ownership, group membership and the explicit
// grant into the caller's resolved access. The robot's Permissions must be
// preloaded; the membership row is looked up only for group-owned robots.
func resolveRobotAccess(
	ctx context.Context,
	groupRepo repository.GroupRepository,
	userID uuid.UUID,
	robot *entity.Robot,
) (access.Resolution, error) {
	var membership *entity.GroupMember

	if robot.OwnerType == entity.OwnerTypeGroup {
		found, err := groupRepo.FindMembership(ctx, userID, robot.OwnerID)
		if err != nil && !errors.Is(err, repository.ErrMembershipNotFound) {
			return access.Resolution{}, errors.Wrap(err, "failed to find group membership")
		}
		if err == nil {
			membership = found
		}
	}

	return access.Resolve(userID, robot, membership, robot.GrantFor(userID)), nil
}
