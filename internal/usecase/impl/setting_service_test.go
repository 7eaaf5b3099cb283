package impl

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robofleet/internal/domain/entity"
	domainerrors "robofleet/internal/domain/errors"
	"robofleet/internal/usecase"
)

func TestSaveSettings_RoundTrip(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	alice := f.registerUser(ctx, "Alice", "alice@example.com")

	_, err := f.robots.CreateRobot(ctx, &usecase.CreateRobotInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Name:         "Loader",
		OwnerType:    entity.OwnerTypeUser,
	})
	require.NoError(t, err)

	payload := json.RawMessage(`{"speed": 3, "theme": "dark"}`)
	saved, err := f.settings.SaveSettings(ctx, &usecase.SaveSettingsInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Settings:     payload,
	})
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(saved.Settings))

	loaded, err := f.settings.GetSettings(ctx, alice.ID, "RBT-001")
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(loaded.Settings))
}

func TestSaveSettings_ReplacesDocument(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	alice := f.registerUser(ctx, "Alice", "alice@example.com")

	_, err := f.robots.CreateRobot(ctx, &usecase.CreateRobotInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Name:         "Loader",
		OwnerType:    entity.OwnerTypeUser,
	})
	require.NoError(t, err)

	_, err = f.settings.SaveSettings(ctx, &usecase.SaveSettingsInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Settings:     json.RawMessage(`{"speed": 3}`),
	})
	require.NoError(t, err)

	// The second save replaces the whole document, no merging.
	_, err = f.settings.SaveSettings(ctx, &usecase.SaveSettingsInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Settings:     json.RawMessage(`{"theme": "dark"}`),
	})
	require.NoError(t, err)

	loaded, err := f.settings.GetSettings(ctx, alice.ID, "RBT-001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme": "dark"}`, string(loaded.Settings))
}

func TestSaveSettings_InvalidPayload(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	alice := f.registerUser(ctx, "Alice", "alice@example.com")

	_, err := f.settings.SaveSettings(ctx, &usecase.SaveSettingsInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
	})
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Settings payload is required", appErr.Message())

	_, err = f.settings.SaveSettings(ctx, &usecase.SaveSettingsInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Settings:     json.RawMessage(`{"broken":`),
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Settings payload must be valid JSON", appErr.Message())
}

func TestGetSettings_DefaultsToEmptyDocument(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	alice := f.registerUser(ctx, "Alice", "alice@example.com")

	_, err := f.robots.CreateRobot(ctx, &usecase.CreateRobotInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Name:         "Loader",
		OwnerType:    entity.OwnerTypeUser,
	})
	require.NoError(t, err)

	setting, err := f.settings.GetSettings(ctx, alice.ID, "RBT-001")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(setting.Settings))
}

func TestSettings_RequireRobotAccess(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	alice := f.registerUser(ctx, "Alice", "alice@example.com")
	bob := f.registerUser(ctx, "Bob", "bob@example.com")

	_, err := f.robots.CreateRobot(ctx, &usecase.CreateRobotInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Name:         "Loader",
		OwnerType:    entity.OwnerTypeUser,
	})
	require.NoError(t, err)

	_, err = f.settings.GetSettings(ctx, bob.ID, "RBT-001")
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)

	_, err = f.settings.SaveSettings(ctx, &usecase.SaveSettingsInput{
		ActingUserID: bob.ID,
		SerialNumber: "RBT-001",
		Settings:     json.RawMessage(`{}`),
	})
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)

	_, err = f.settings.GetSettings(ctx, bob.ID, "RBT-MISSING")
	assert.ErrorIs(t, err, domainerrors.ErrRobotNotFound)
}

func TestSettings_IsolatedPerUser(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	alice := f.registerUser(ctx, "Alice", "alice@example.com")
	bob := f.registerUser(ctx, "Bob", "bob@example.com")

	_, err := f.robots.CreateRobot(ctx, &usecase.CreateRobotInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Name:         "Loader",
		OwnerType:    entity.OwnerTypeUser,
	})
	require.NoError(t, err)
	_, err = f.robots.GrantPermission(ctx, &usecase.GrantPermissionInput{
		ActingUserID:   alice.ID,
		SerialNumber:   "RBT-001",
		TargetUserID:   &bob.ID,
		PermissionType: entity.PermissionUsage,
	})
	require.NoError(t, err)

	_, err = f.settings.SaveSettings(ctx, &usecase.SaveSettingsInput{
		ActingUserID: alice.ID,
		SerialNumber: "RBT-001",
		Settings:     json.RawMessage(`{"theme": "dark"}`),
	})
	require.NoError(t, err)

	// Bob shares the robot but not Alice's settings.
	setting, err := f.settings.GetSettings(ctx, bob.ID, "RBT-001")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(setting.Settings))
}

func TestListSettings_AnnotatesRobots(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	alice := f.registerUser(ctx, "Alice", "alice@example.com")

	for _, serial := range []string{"RBT-001", "RBT-002"} {
		_, err := f.robots.CreateRobot(ctx, &usecase.CreateRobotInput{
			ActingUserID: alice.ID,
			SerialNumber: serial,
			Name:         "Loader " + serial,
			OwnerType:    entity.OwnerTypeUser,
		})
		require.NoError(t, err)
		_, err = f.settings.SaveSettings(ctx, &usecase.SaveSettingsInput{
			ActingUserID: alice.ID,
			SerialNumber: serial,
			Settings:     json.RawMessage(`{"speed": 1}`),
		})
		require.NoError(t, err)
	}

	settings, err := f.settings.ListSettings(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	for _, setting := range settings {
		require.NotNil(t, setting.Robot)
		assert.NotEmpty(t, setting.Robot.SerialNumber)
	}
}
