package service

import (
	"context"

	"golazo.app/penaltyduel/internal/dto"
	"golazo.app/penaltyduel/internal/game"
	"golazo.app/penaltyduel/internal/repository"
)

const DefaultLeaderboardSize = 25

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	stats repository.StatsRepository
}

func NewLeaderboardService(stats repository.StatsRepository) LeaderboardService {
	return &leaderboardService{stats: stats}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultLeaderboardSize
	}

	rows, err := s.stats.GetTopUsers(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		if row.User == nil || row.User.IsBlocked {
			continue
		}

		entries = append(entries, dto.LeaderboardEntry{
			Position:    i + 1,
			Username:    row.User.Username,
			AvatarID:    row.User.AvatarID,
			AvatarURL:   row.User.AvatarURL,
			TotalPoints: row.TotalPoints,
			GamesWon:    row.GamesWon,
			Level:       game.CalculateLevel(row.TotalPoints),
		})
	}

	return entries, nil
}
