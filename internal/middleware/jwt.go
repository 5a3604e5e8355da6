package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contacts-api/internal/model"
	"github.com/iliyamo/contacts-api/internal/utils"
)

// UserStore is the slice of the user repository the auth middleware
// needs to resolve a token subject into an account.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and resolves the current user. The token must verify against
// the given secret, carry the access scope and name an existing user
// as its subject; any failure ends the request with 401 before the
// handler (or any later middleware, including rate limiting) runs.
// On success the user's email and id are stored in the context under
// "user_email" and "user_id".
func JWTAuth(secret string, users UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			email, err := utils.ParseToken(secret, raw, utils.ScopeAccess)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// The subject must still exist; a token outliving its
			// account is as unauthorized as a forged one.
			u, err := users.GetByEmail(c.Request().Context(), email)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_email", u.Email)
			c.Set("user_id", u.ID)
			return next(c)
		}
	}
}
