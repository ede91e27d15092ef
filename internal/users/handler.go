// Package users serves the admin-only user listing.
package users

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kmarchais/geography-game/internal/store"
	"github.com/kmarchais/geography-game/internal/telemetry"
)

type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// List handles GET /api/users. The admin gate has already run; this
// only reads. An empty table is a 200 with an empty array.
func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.store.ListUsers(c.Context())
	if err != nil {
		l := telemetry.L()
		l.Error().Err(err).Msg("list_users_failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database operation failed"})
	}
	return c.JSON(list)
}
