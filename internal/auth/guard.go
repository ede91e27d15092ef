package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kmarchais/geography-game/internal/telemetry"
)

const claimsKey = "sessionClaims"

// RequireSession is the gate in front of every protected route. The
// rejection reason (missing token, malformed header, expired, bad
// signature) is logged but the client always gets the same 401; CORS
// preflight never reaches this handler because fiber's cors middleware
// answers OPTIONS first.
func RequireSession(issuer *Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := telemetry.L().With().Str("path", c.Path()).Logger()

		header := c.Get("Authorization")
		if header == "" {
			log.Warn().Msg("auth_missing_token")
			return unauthorized(c)
		}
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			log.Warn().Msg("auth_malformed_header")
			return unauthorized(c)
		}

		claims, err := issuer.Parse(raw)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				log.Warn().Msg("auth_token_expired")
			} else {
				log.Warn().Err(err).Msg("auth_token_invalid")
			}
			return unauthorized(c)
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin allows only sessions carrying the admin flag. It must
// run after RequireSession.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)
		if !ok {
			return unauthorized(c)
		}
		if !claims.IsAdmin {
			l := telemetry.L()
			l.Warn().Int64("user_id", claims.UserID).Str("path", c.Path()).Msg("auth_forbidden")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

// ClaimsFromCtx returns the session claims attached by RequireSession.
func ClaimsFromCtx(c *fiber.Ctx) (*SessionClaims, bool) {
	claims, ok := c.Locals(claimsKey).(*SessionClaims)
	return claims, ok
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}
