package main

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/kmarchais/geography-game/internal/auth"
	"github.com/kmarchais/geography-game/internal/config"
	"github.com/kmarchais/geography-game/internal/db"
	"github.com/kmarchais/geography-game/internal/middleware"
	"github.com/kmarchais/geography-game/internal/scores"
	"github.com/kmarchais/geography-game/internal/store"
	"github.com/kmarchais/geography-game/internal/telemetry"
	"github.com/kmarchais/geography-game/internal/users"
)

func main() {
	cfg := config.Load()
	sqlxDB := db.MustConnect(cfg.DBDSN)
	db.MustInitSchema(sqlxDB)

	tlog := telemetry.Init(telemetry.FromEnv(config.GetEnv))
	tlog.Info().Str("port", cfg.AppPort).Msg("booting geography-game api")

	app := fiber.New()

	app.Use(middleware.RequestID())
	app.Use(middleware.Recover())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.RequestLog())
	app.Use(middleware.SecureHeaders())

	st := store.New(sqlxDB, cfg.QueryTimeout)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	verifier := auth.NewGoogleVerifier(cfg.GoogleClientID)
	authReg := auth.NewRegistry(cfg, st, verifier, issuer)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/api/auth/google", authReg.GoogleAuth)

	uh := users.NewHandler(st)
	sh := scores.NewHandler(st)
	protected := app.Group("/api", auth.RequireSession(issuer))

	protected.Get("/me", authReg.Me)
	protected.Post("/scores", sh.Add)
	protected.Get("/scores/leaderboard", sh.Leaderboard)
	protected.Get("/users", auth.RequireAdmin(), uh.List)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
