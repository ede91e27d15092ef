package db

import (
	"context"
	_ "embed"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// MustConnect opens the shared connection pool. The bounds mirror the
// original deployment: at most 10 connections, at least 1 kept idle.
func MustConnect(dsn string) *sqlx.DB {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatal(err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db
}

// MustInitSchema applies the embedded schema. Every statement is
// idempotent, so running it on every boot is safe.
func MustInitSchema(db *sqlx.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatal(err)
	}
}
