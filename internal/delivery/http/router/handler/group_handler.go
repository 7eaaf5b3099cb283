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

// GroupHandler holds dependencies for group handlers.
type GroupHandler struct {
	uc usecase.GroupUsecase
}

// NewGroupHandler is the constructor for GroupHandler, injected by Fx.
func NewGroupHandler(uc usecase.GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

type addMemberRequest struct {
	Email string            `json:"email" validate:"required"`
	Role  entity.MemberRole `json:"role"`
}

type updateRoleRequest struct {
	Role entity.MemberRole `json:"role" validate:"required,oneof=ADMIN MEMBER"`
}

// Create handles group creation. The caller becomes the first admin.
func (h *GroupHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid group input")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Group name is required")
	}

	group, err := h.uc.CreateGroup(c.Request().Context(), &usecase.CreateGroupInput{
		ActingUserID: userID,
		Name:         req.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusCreated, group)
}

// List returns the caller's groups with roles and owned robots.
func (h *GroupHandler) List(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	groups, err := h.uc.ListGroups(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, groups)
}

// Get returns one group's detail. Members only.
func (h *GroupHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid group ID")
	}

	group, err := h.uc.GetGroup(c.Request().Context(), userID, groupID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, group)
}

// AddMember adds a registered user to the group by email. Admins only.
func (h *GroupHandler) AddMember(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid group ID")
	}

	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid member input")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Email is required")
	}

	member, err := h.uc.AddMember(c.Request().Context(), &usecase.AddMemberInput{
		ActingUserID: userID,
		GroupID:      groupID,
		Email:        req.Email,
		Role:         req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusCreated, member)
}

// RemoveMember removes a member from the group. Admins only.
func (h *GroupHandler) RemoveMember(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid group ID")
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.uc.RemoveMember(c.Request().Context(), userID, groupID, memberID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Member removed")
}

// UpdateMemberRole changes a member's role. Admins only.
func (h *GroupHandler) UpdateMemberRole(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid group ID")
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user ID")
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid role input")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Role must be ADMIN or MEMBER")
	}

	member, err := h.uc.UpdateMemberRole(c.Request().Context(), &usecase.UpdateMemberRoleInput{
		ActingUserID: userID,
		GroupID:      groupID,
		MemberID:     memberID,
		Role:         req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, member)
}

// Delete removes the group and everything it owns. Admins only.
func (h *GroupHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid group ID")
	}

	if err := h.uc.DeleteGroup(c.Request().Context(), userID, groupID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Group deleted")
}
