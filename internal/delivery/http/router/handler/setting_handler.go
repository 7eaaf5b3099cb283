package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"robofleet/internal/delivery/http/middleware"
	"robofleet/internal/delivery/http/response"
	"robofleet/internal/usecase"
)

// SettingHandler holds dependencies for per-user robot settings handlers.
type SettingHandler struct {
	uc usecase.SettingUsecase
}

// NewSettingHandler is the constructor for SettingHandler, injected by Fx.
func NewSettingHandler(uc usecase.SettingUsecase) *SettingHandler {
	return &SettingHandler{uc: uc}
}

type saveSettingsRequest struct {
	Settings json.RawMessage `json:"settings" validate:"required"`
}

// Save upserts the caller's settings for one robot.
func (h *SettingHandler) Save(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	var req saveSettingsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid settings input")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Settings payload is required")
	}

	setting, err := h.uc.SaveSettings(c.Request().Context(), &usecase.SaveSettingsInput{
		ActingUserID: userID,
		SerialNumber: c.Param("serialNumber"),
		Settings:     req.Settings,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, setting)
}

// Get returns the caller's settings for one robot, or an empty document.
func (h *SettingHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	setting, err := h.uc.GetSettings(c.Request().Context(), userID, c.Param("serialNumber"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, setting)
}

// List returns all the caller's settings rows across robots.
func (h *SettingHandler) List(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "Authentication required")
	}

	settings, err := h.uc.ListSettings(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, settings)
}
