package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/kmarchais/geography-game/internal/model"
)

// AddGameScore appends one score row. A user_id that references no
// existing user comes back as ErrUserNotFound, not a crash; score rows
// are never updated or deleted afterwards.
func (s *Store) AddGameScore(ctx context.Context, userID int64, gameMode string, score int) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx,
			`INSERT INTO game_scores (user_id, game_mode, score) VALUES ($1, $2, $3) RETURNING id`,
			userID, gameMode, score).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Leaderboard returns the top scores, highest first, optionally
// filtered to one game mode.
func (s *Store) Leaderboard(ctx context.Context, gameMode string, limit int) ([]model.LeaderboardEntry, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 10
	}

	entries := []model.LeaderboardEntry{}
	var err error
	if gameMode != "" {
		err = s.db.SelectContext(ctx, &entries, `
			SELECT gs.user_id, u.name, gs.game_mode, gs.score, gs.played_at
			FROM game_scores gs
			JOIN users u ON u.id = gs.user_id
			WHERE gs.game_mode = $1
			ORDER BY gs.score DESC, gs.played_at ASC
			LIMIT $2`, gameMode, limit)
	} else {
		err = s.db.SelectContext(ctx, &entries, `
			SELECT gs.user_id, u.name, gs.game_mode, gs.score, gs.played_at
			FROM game_scores gs
			JOIN users u ON u.id = gs.user_id
			ORDER BY gs.score DESC, gs.played_at ASC
			LIMIT $1`, limit)
	}
	if err != nil {
		return nil, classify(err)
	}
	return entries, nil
}
