package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robofleet/internal/delivery/http/middleware"
	"robofleet/internal/domain/entity"
	"robofleet/internal/usecase"
)

type stubRobotUsecase struct {
	usecase.RobotUsecase
	createCalled bool
	grantCalled  bool
}

func (s *stubRobotUsecase) CreateRobot(_ context.Context, _ *usecase.CreateRobotInput) (*entity.Robot, error) {
	s.createCalled = true

	return &entity.Robot{}, nil
}

func (s *stubRobotUsecase) GrantPermission(_ context.Context, _ *usecase.GrantPermissionInput) (*entity.RobotPermission, error) {
	s.grantCalled = true

	return &entity.RobotPermission{}, nil
}

func TestCreateRobotHandler_MissingFieldsRejectedBeforeUsecase(t *testing.T) {
	uc := &stubRobotUsecase{}
	h := NewRobotHandler(uc)

	c, rec := newJSONContext(`{"ownerType": "USER"}`)
	c.Set(middleware.KeyUserID, uuid.New())
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Serial number and name are required"}`, rec.Body.String())
	assert.False(t, uc.createCalled)
}

func TestGrantHandler_InvalidPermissionTypeRejectedBeforeUsecase(t *testing.T) {
	uc := &stubRobotUsecase{}
	h := NewRobotHandler(uc)

	c, rec := newJSONContext(`{"email": "bob@example.com", "permissionType": "OWNER"}`)
	c.Set(middleware.KeyUserID, uuid.New())
	require.NoError(t, h.Grant(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Permission type must be USAGE or ADMIN"}`, rec.Body.String())
	assert.False(t, uc.grantCalled)
}
