package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv, AppPort string

	DBDSN string

	GoogleClientID string
	JWTSecret      string
	SessionTTL     time.Duration

	CORSOrigins []string

	QueryTimeout time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppEnv:         get("APP_ENV", "dev"),
		AppPort:        get("PORT", get("APP_PORT", "8080")),
		DBDSN:          databaseDSN(),
		GoogleClientID: must("GOOGLE_CLIENT_ID"),
		JWTSecret:      must("JWT_SECRET"),
		SessionTTL:     mustDuration(get("SESSION_TTL", "1h")),
		CORSOrigins:    split(get("CORS_ORIGINS", "http://localhost:3000,https://kmarchais.github.io")),
		QueryTimeout:   mustDuration(get("DB_QUERY_TIMEOUT", "5s")),
	}
	return c
}

// databaseDSN prefers a full DATABASE_URL (what Railway injects) and falls
// back to discrete DB_* variables for local development.
func databaseDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := get("DB_HOST", "localhost")
	port := get("DB_PORT", "5432")
	name := get("DB_NAME", "geography_game")
	user := get("DB_USER", "geography_game_user")
	pass := must("DB_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(user), url.QueryEscape(pass), host, port, name)
}

func get(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}
func mustDuration(s string) time.Duration { d, _ := time.ParseDuration(s); return d }
func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func GetEnv(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}

func GetEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return d
}
