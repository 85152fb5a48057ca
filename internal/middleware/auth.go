package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/finsightapp/finsight-backend/internal/domain"
)

// UserIDHeader carries the caller's identity. The app trusts the header
// as-is; it is meant to sit behind a gateway that authenticates requests.
const UserIDHeader = "X-User-ID"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// UserIDKey is the context key for the authenticated user's ID
const UserIDKey contextKey = "user_id"

// UserProvider provides user lookup by ID
type UserProvider interface {
	GetByID(id uuid.UUID) (*domain.User, error)
}

// IdentityMiddleware resolves the X-User-ID header to a known user
type IdentityMiddleware struct {
	users UserProvider
}

// NewIdentityMiddleware creates a new IdentityMiddleware
func NewIdentityMiddleware(users UserProvider) *IdentityMiddleware {
	return &IdentityMiddleware{users: users}
}

// Authenticate returns an Echo middleware that requires a valid X-User-ID header
func (m *IdentityMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(UserIDHeader)
			if header == "" {
				return unauthorizedError(c, "missing X-User-ID header")
			}

			userID, err := uuid.Parse(header)
			if err != nil {
				return unauthorizedError(c, "X-User-ID must be a valid UUID")
			}

			if m.users != nil {
				if _, err := m.users.GetByID(userID); err != nil {
					if err == domain.ErrUserNotFound {
						return unauthorizedError(c, "unknown user")
					}
					log.Error().Err(err).Str("user_id", userID.String()).Msg("User lookup failed")
					return echo.NewHTTPError(http.StatusInternalServerError, "user lookup failed")
				}
			}

			ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user's ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
