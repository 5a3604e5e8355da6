package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/contacts-api/internal/config"
	"github.com/iliyamo/contacts-api/internal/handler"
	"github.com/iliyamo/contacts-api/internal/middleware"
)

// RegisterContacts registers the contact CRUD endpoints under
// /api/contacts. Every route requires a valid access token; creation
// is additionally rate limited to 2 requests per 10 seconds. The JWT
// middleware is attached at the group level so it always runs before
// the per-route limiter: an unauthenticated create never consumes
// rate-limit quota.
func RegisterContacts(e *echo.Echo, h *handler.ContactHandler, jwtSecret string, users middleware.UserStore,
	rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/api/contacts", middleware.JWTAuth(jwtSecret, users))
	g.GET("/", h.List)
	g.GET("/search", h.Search)
	g.GET("/birthday/", h.Birthdays)
	g.GET("/:id", h.GetByID)
	g.POST("/", h.Create, middleware.RateLimit(rlCfg, rdb, 2, 10*time.Second))
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
