// Package scores handles score submission and the leaderboard reads.
package scores

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kmarchais/geography-game/internal/auth"
	"github.com/kmarchais/geography-game/internal/store"
	"github.com/kmarchais/geography-game/internal/telemetry"
)

type Handler struct {
	store    *store.Store
	validate *validator.Validate
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st, validate: validator.New()}
}

type addScoreRequest struct {
	GameMode string `json:"game_mode" validate:"required,max=64"`
	Score    int    `json:"score" validate:"gte=0"`
}

// Add handles POST /api/scores. The score is recorded for the session's
// user; scores are append-only.
func (h *Handler) Add(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req addScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid score payload"})
	}

	id, err := h.store.AddGameScore(c.Context(), claims.UserID, req.GameMode, req.Score)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// the user row vanished after the token was minted
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		l := telemetry.L()
		l.Error().Err(err).Int64("user_id", claims.UserID).Msg("add_score_failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database operation failed"})
	}

	l := telemetry.L()
	l.Info().Int64("user_id", claims.UserID).Str("game_mode", req.GameMode).Int("score", req.Score).Msg("score_recorded")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        id,
		"game_mode": req.GameMode,
		"score":     req.Score,
	})
}

// Leaderboard handles GET /api/scores/leaderboard.
func (h *Handler) Leaderboard(c *fiber.Ctx) error {
	gameMode := c.Query("game_mode")
	limit := c.QueryInt("limit", 10)

	entries, err := h.store.Leaderboard(c.Context(), gameMode, limit)
	if err != nil {
		l := telemetry.L()
		l.Error().Err(err).Msg("leaderboard_failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database operation failed"})
	}
	return c.JSON(entries)
}
