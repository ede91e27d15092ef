package auth

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kmarchais/geography-game/internal/config"
	"github.com/kmarchais/geography-game/internal/store"
	"github.com/kmarchais/geography-game/internal/telemetry"
)

// Registry bundles the login dependencies: identity verification,
// persistence and session minting.
type Registry struct {
	cfg      *config.Config
	store    *store.Store
	verifier TokenVerifier
	issuer   *Issuer
	validate *validator.Validate
}

func NewRegistry(cfg *config.Config, st *store.Store, verifier TokenVerifier, issuer *Issuer) *Registry {
	return &Registry{
		cfg:      cfg,
		store:    st,
		verifier: verifier,
		issuer:   issuer,
		validate: validator.New(),
	}
}

type loginRequest struct {
	Token string `json:"token" validate:"required"`
}

// loginUser is the user shape the frontend expects back from login.
type loginUser struct {
	ID       int64  `json:"id"`
	GoogleID string `json:"google_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	IsAdmin  bool   `json:"is_admin"`
}

// GoogleAuth handles POST /api/auth/google: verify the Google ID token,
// upsert the user, re-read the authoritative row (is_admin and the
// timestamps live in the database, not in the identity claims) and mint
// a session token.
func (r *Registry) GoogleAuth(c *fiber.Ctx) error {
	rid := c.Get("X-Request-ID")
	log := telemetry.L().With().Str("req_id", rid).Logger()

	if !c.Is("json") {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": "request must be JSON"})
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := r.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing token"})
	}

	claims, err := r.verifier.Verify(c.Context(), req.Token)
	if err != nil {
		log.Warn().Err(err).Msg("google_token_rejected")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	if claims.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email not found in token"})
	}

	userID, err := r.store.UpsertUser(c.Context(), claims.Sub, claims.Email, claims.Name, claims.Picture)
	if err != nil {
		log.Error().Err(err).Str("sub", claims.Sub).Msg("user_upsert_failed")
		return storeError(c)
	}

	user, err := r.store.GetUserByID(c.Context(), userID)
	if err != nil || user == nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("user_reread_failed")
		return storeError(c)
	}

	token, err := r.issuer.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("session_issue_failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user_logged_in")
	return c.JSON(fiber.Map{
		"status": "success",
		"user": loginUser{
			ID:       user.ID,
			GoogleID: user.GoogleID,
			Email:    user.Email,
			Name:     user.Name,
			Picture:  user.ProfilePictureURL,
			IsAdmin:  user.IsAdmin,
		},
		"access_token": token,
	})
}

// Me returns the authenticated user's own record.
func (r *Registry) Me(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := r.store.GetUserByID(c.Context(), claims.UserID)
	if err != nil {
		l := telemetry.L()
		l.Error().Err(err).Int64("user_id", claims.UserID).Msg("me_lookup_failed")
		return storeError(c)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(user)
}

func storeError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database operation failed"})
}
