package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler exposes the welcome and healthcheck endpoints.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Welcome handles GET / with a static greeting. The route is rate
// limited at registration time; nothing else happens here.
func (h *HealthHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to the contacts API"})
}

// Healthchecker handles GET /api/healthchecker by running SELECT 1
// against the store. Unlike the data endpoints, a store failure here
// is a 500: the check exists to tell the orchestrator the database is
// unreachable.
func (h *HealthHandler) Healthchecker(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var one int
	if err := h.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error connecting to the database"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "database is up"})
}
