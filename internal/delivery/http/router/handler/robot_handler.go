package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"robofleet/internal/delivery/http/middleware"
	"robofleet/internal/delivery/http/response"
	"robofleet/internal/domain/entity"
	"robofleet/internal/usecase"
)

// RobotHandler holds dependencies for robot registry handlers.
type RobotHandler struct {
	uc usecase.RobotUsecase
}

// NewRobotHandler is the constructor for RobotHandler, injected by Fx.
func NewRobotHandler(uc usecase.RobotUsecase) *RobotHandler {
	return &RobotHandler{uc: uc}
}

type createRobotRequest struct {
	SerialNumber string           `json:"serialNumber" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	OwnerType    entity.OwnerType `json:"ownerType"`
	OwnerID      *uuid.UUID       `json:"ownerId"`
}

type grantPermissionRequest struct {
	UserID         *uuid.UUID            `json:"userId"`
	Email          string                `json:"email"`
	PermissionType entity.PermissionType `json:"permissionType" validate:"required,oneof=USAGE ADMIN"`
}

// robotItem is a robot annotated with the caller's resolved permission.
type robotItem struct {
	*entity.Robot
	UserPermission *entity.PermissionType `json:"userPermission"`
}

// robotDetail adds the resolved owner to the annotated robot.
// Owner is a PublicUser or a Group depending on the robot's owner type.
type robotDetail struct {
	*entity.Robot
	Owner          any                    `json:"owner,omitempty"`
	UserPermission *entity.PermissionType `json:"userPermission"`
}

// Create handles robot registration.
func (h *RobotHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	var req createRobotRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid robot input")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Serial number and name are required")
	}

	robot, err := h.uc.CreateRobot(c.Request().Context(), &usecase.CreateRobotInput{
		ActingUserID: userID,
		SerialNumber: req.SerialNumber,
		Name:         req.Name,
		OwnerType:    req.OwnerType,
		OwnerID:      req.OwnerID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusCreated, robot)
}

// List returns every robot the caller can reach, with resolved permissions.
func (h *RobotHandler) List(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	items, err := h.uc.ListRobots(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	body := make([]robotItem, 0, len(items))
	for _, item := range items {
		body = append(body, robotItem{Robot: item.Robot, UserPermission: item.UserPermission})
	}

	return response.JSON(c, http.StatusOK, body)
}

// Get returns the robot detail for one serial number.
func (h *RobotHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	detail, err := h.uc.GetRobotBySerial(c.Request().Context(), userID, c.Param("serialNumber"))
	if err != nil {
		return errors.WithStack(err)
	}

	body := robotDetail{
		Robot:          detail.Robot,
		UserPermission: detail.UserPermission,
	}
	switch {
	case detail.OwnerUser != nil:
		body.Owner = detail.OwnerUser
	case detail.OwnerGroup != nil:
		body.Owner = detail.OwnerGroup
	}

	return response.JSON(c, http.StatusOK, body)
}

// Delete removes a robot. Owner or group-admin only.
func (h *RobotHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	if err := h.uc.DeleteRobot(c.Request().Context(), userID, c.Param("serialNumber")); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Robot deleted")
}

// Grant upserts a permission for a target user on the robot.
func (h *RobotHandler) Grant(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	var req grantPermissionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid permission input")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Permission type must be USAGE or ADMIN")
	}

	grant, err := h.uc.GrantPermission(c.Request().Context(), &usecase.GrantPermissionInput{
		ActingUserID:   userID,
		SerialNumber:   c.Param("serialNumber"),
		TargetUserID:   req.UserID,
		TargetEmail:    req.Email,
		PermissionType: req.PermissionType,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusCreated, grant)
}

// Revoke removes a target user's permission on the robot.
func (h *RobotHandler) Revoke(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.uc.RevokePermission(c.Request().Context(), userID, c.Param("serialNumber"), targetID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Permission revoked")
}
