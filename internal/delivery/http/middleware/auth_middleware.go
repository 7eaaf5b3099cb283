package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"robofleet/internal/delivery/http/response"
	"robofleet/internal/domain/service"
)

// KeyUserID is the echo context key carrying the authenticated user's ID.
const KeyUserID = "userID"

// AuthMiddleware provides middleware for JWT authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and stores the user ID on the
// request context. Missing, malformed and expired tokens all yield 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, http.StatusUnauthorized, "Authentication required")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Error(c, http.StatusUnauthorized, "Authentication required")
		}

		claims, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(KeyUserID, claims.UserID)

		return next(c)
	}
}

// UserID extracts the authenticated user's ID from the echo context.
// It must be called after Authenticate.
func UserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(KeyUserID).(uuid.UUID)

	return userID, ok
}
