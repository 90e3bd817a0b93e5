package handlers

import (
	"github.com/gofiber/fiber/v2"

	"labexams/database"
	"labexams/utils/response"
)

// HealthHandler reports process and database liveness
type HealthHandler struct {
	store database.Storage
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store database.Storage) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.store.HealthCheck(); err != nil {
		return response.ServiceUnavailable(c, "database unreachable")
	}

	return response.OK(c, fiber.Map{"status": "ok"})
}
