package dto

import (
	"golazo.app/penaltyduel/internal/game"
	"golazo.app/penaltyduel/internal/model"
)

type PlayerStatsResponse struct {
	Username string           `json:"username"`
	AvatarID int              `json:"avatar_id"`
	Stats    *model.UserStats `json:"stats"`
	Level    game.Level       `json:"level"`
}

type LeaderboardEntry struct {
	Position    int        `json:"position"`
	Username    string     `json:"username"`
	AvatarID    int        `json:"avatar_id"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	TotalPoints int        `json:"total_points"`
	GamesWon    int        `json:"games_won"`
	Level       game.Level `json:"level"`
}
