package store

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/kmarchais/geography-game/internal/model"
)

// upsertUserSQL refreshes the profile fields on every login but leaves
// id, is_admin and created_at alone. The conflict target makes two
// concurrent logins for the same google_id safe without app-level locks.
const upsertUserSQL = `
INSERT INTO users (google_id, email, name, profile_picture_url, last_login)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (google_id) DO UPDATE
SET email = EXCLUDED.email,
    name = EXCLUDED.name,
    profile_picture_url = EXCLUDED.profile_picture_url,
    last_login = NOW()
RETURNING id`

const userColumns = `id, google_id, email, name, profile_picture_url, is_admin, created_at, last_login`

// UpsertUser inserts or refreshes the user row keyed on google_id and
// returns its id.
func (s *Store) UpsertUser(ctx context.Context, googleID, email, name, picture string) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, upsertUserSQL, googleID, email, name, picture).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var u model.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if err = classify(err); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var u model.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	if err != nil {
		if err = classify(err); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users, most recent login first. An empty table
// yields an empty slice, not an error.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	users := []model.User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY last_login DESC`)
	if err != nil {
		return nil, classify(err)
	}
	return users, nil
}
