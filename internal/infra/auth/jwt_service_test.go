package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robofleet/config"
)

func testConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		JWTSecret: secret,
		TokenTTL:  ttl,
	}

	return cfg
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(testConfig("", 0))
	assert.Error(t, err)
}

func TestNewJWTService_DefaultsTTLToSevenDays(t *testing.T) {
	svc, err := NewJWTService(testConfig("secret", 0))
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, svc.TokenDuration())
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(testConfig("secret", time.Hour))
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.Generate(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_ValidateRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTService(testConfig("secret-a", time.Hour))
	require.NoError(t, err)
	verifier, err := NewJWTService(testConfig("secret-b", time.Hour))
	require.NoError(t, err)

	token, err := issuer.Generate(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateRejectsExpiredToken(t *testing.T) {
	svc, err := NewJWTService(testConfig("secret", -time.Minute))
	require.NoError(t, err)

	token, err := svc.Generate(uuid.New())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateRejectsGarbage(t *testing.T) {
	svc, err := NewJWTService(testConfig("secret", time.Hour))
	require.NoError(t, err)

	_, err = svc.Validate("not-a-token")
	assert.Error(t, err)
}
