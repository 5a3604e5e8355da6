package router // package router defines how HTTP routes are registered for the API

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/contacts-api/internal/config"
	"github.com/iliyamo/contacts-api/internal/handler"
	"github.com/iliyamo/contacts-api/internal/middleware"
)

// RegisterRoutes registers the routes that live outside the /api
// contact and auth groups: the rate-limited welcome page and the
// database healthcheck.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	// The welcome page allows 2 requests per 5 seconds per client.
	e.GET("/", h.Welcome, middleware.RateLimit(rlCfg, rdb, 2, 5*time.Second))
	e.GET("/api/healthchecker", h.Healthchecker)
}
