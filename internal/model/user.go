package model

import "time"

type User struct {
	ID                int64     `db:"id" json:"id"`
	GoogleID          string    `db:"google_id" json:"google_id"`
	Email             string    `db:"email" json:"email"`
	Name              string    `db:"name" json:"name"`
	ProfilePictureURL string    `db:"profile_picture_url" json:"profile_picture_url"`
	IsAdmin           bool      `db:"is_admin" json:"is_admin"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	LastLogin         time.Time `db:"last_login" json:"last_login"`
}

type GameScore struct {
	ID       int64     `db:"id" json:"id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	GameMode string    `db:"game_mode" json:"game_mode"`
	Score    int       `db:"score" json:"score"`
	PlayedAt time.Time `db:"played_at" json:"played_at"`
}

// LeaderboardEntry is a score row joined with the player's display name.
type LeaderboardEntry struct {
	UserID   int64     `db:"user_id" json:"user_id"`
	Name     string    `db:"name" json:"name"`
	GameMode string    `db:"game_mode" json:"game_mode"`
	Score    int       `db:"score" json:"score"`
	PlayedAt time.Time `db:"played_at" json:"played_at"`
}
