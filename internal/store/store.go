// Package store is the persistence gateway for users and game scores.
// Every operation borrows one pooled connection for its duration and
// bounds it with a deadline, so an exhausted pool surfaces as a fast
// ErrUnavailable instead of a hang.
package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kmarchais/geography-game/internal/telemetry"
)

const defaultQueryTimeout = 5 * time.Second

type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

func New(db *sqlx.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Store{db: db, timeout: timeout}
}

func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// withTx runs fn inside a transaction, rolling back on any error before
// the connection goes back to the pool.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			l := telemetry.L()
			l.Error().Err(rbErr).Msg("tx rollback failed")
		}
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}
