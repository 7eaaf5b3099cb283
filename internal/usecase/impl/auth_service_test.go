package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "robofleet/internal/domain/errors"
	"robofleet/internal/usecase"
)

func TestRegister_Success(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()

	out, err := f.auth.Register(ctx, &usecase.RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	require.NotNil(t, out.User)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "Alice", out.User.Name)
	assert.Equal(t, "alice@example.com", out.User.Email, "email should be normalized to lower case")

	// The issued token resolves back to the new account.
	claims, err := f.tokens.Validate(out.Token)
	require.NoError(t, err)
	me, err := f.auth.GetMe(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, me.ID)
}

func TestRegister_MissingFields(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()

	cases := []struct {
		name  string
		input usecase.RegisterInput
	}{
		{"no name", usecase.RegisterInput{Email: "a@b.com", Password: "x"}},
		{"no email", usecase.RegisterInput{Name: "A", Password: "x"}},
		{"no password", usecase.RegisterInput{Name: "A", Email: "a@b.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Register(ctx, &tc.input)
			require.Error(t, err)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.HTTPCode())
			assert.Equal(t, "Name, email and password are required", appErr.Message())
		})
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	f := newFixtures()

	_, err := f.auth.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Alice",
		Email:    "not-an-email",
		Password: "secret-pass",
	})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid email address", appErr.Message())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	f.registerUser(ctx, "Alice", "alice@example.com")

	_, err := f.auth.Register(ctx, &usecase.RegisterInput{
		Name:     "Impostor",
		Email:    "alice@example.com",
		Password: "other-pass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
}

func TestLogin_Success(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	registered := f.registerUser(ctx, "Alice", "alice@example.com")

	out, err := f.auth.Login(ctx, &usecase.LoginInput{
		Email:    "ALICE@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, out.User.ID)
	assert.NotEmpty(t, out.Token)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	f.registerUser(ctx, "Alice", "alice@example.com")

	_, unknownErr := f.auth.Login(ctx, &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "secret-pass",
	})
	_, wrongPassErr := f.auth.Login(ctx, &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-pass",
	})

	// Unknown email and wrong password must be the same error, so callers
	// cannot tell which addresses are registered.
	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, domainerrors.ErrInvalidCredentials)
}

func TestGetMe_UnknownUser(t *testing.T) {
	f := newFixtures()

	_, err := f.auth.GetMe(context.Background(), newID())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
