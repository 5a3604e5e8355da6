package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contacts-api/internal/handler"
	"github.com/iliyamo/contacts-api/internal/middleware"
)

// RegisterAuth registers the authentication endpoints under
// /api/auth. Signup, login, refresh and email confirmation are open;
// avatar changes require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, users middleware.UserStore) {
	g := e.Group("/api/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	// The refresh token travels in the Authorization header, so the
	// exchange is a GET with no body.
	g.GET("/refresh_token", a.Refresh)
	g.GET("/confirmed_email/:token", a.ConfirmEmail)
	g.PATCH("/avatar", a.UpdateAvatar, middleware.JWTAuth(jwtSecret, users))
}
