package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrUserNotFound means a write referenced a user row that does not
	// exist (foreign key violation on game_scores.user_id).
	ErrUserNotFound = errors.New("store: referenced user does not exist")
	// ErrUnavailable covers pool exhaustion and connection failures.
	// Clients may retry; the detail stays in the server log.
	ErrUnavailable = errors.New("store: database unavailable")
)

const pgForeignKeyViolation = "23503"

// classify maps driver-level failures onto the store's error set so
// handlers never have to know about pgconn.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %v", ErrUserNotFound, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
