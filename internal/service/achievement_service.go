package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golazo.app/penaltyduel/internal/dto"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/internal/repository"
	"golazo.app/penaltyduel/pkg/apperror"
	"gorm.io/gorm"
)

type AchievementService interface {
	// Evaluate checks every not-yet-unlocked catalog entry against the user's
	// freshly updated stats and records new unlocks. It must run inside the
	// same transaction as the stats update; reward points are credited onto
	// the passed stats row (the caller persists it).
	Evaluate(ctx context.Context, tx *gorm.DB, stats *model.UserStats) ([]model.Achievement, error)

	ListForUser(ctx context.Context, userID uuid.UUID) ([]dto.AchievementStatus, error)
	GetActiveBadge(ctx context.Context, userID uuid.UUID) (*model.ActiveBadge, error)
	SetActiveBadge(ctx context.Context, userID uuid.UUID, achievementID string) (*model.ActiveBadge, error)
}

type achievementService struct {
	repo repository.AchievementRepository
	// catalog is loaded once at process start and never mutated.
	catalog      []model.Achievement
	creditReward bool
}

func NewAchievementService(repo repository.AchievementRepository, catalog []model.Achievement, creditReward bool) AchievementService {
	return &achievementService{
		repo:         repo,
		catalog:      catalog,
		creditReward: creditReward,
	}
}

// satisfied evaluates one requirement against the stats row.
func satisfied(a model.Achievement, stats *model.UserStats) bool {
	switch a.RequirementType {
	case model.RequirementGoalsScored:
		return stats.GoalsScored >= a.Threshold
	case model.RequirementSavesMade:
		return stats.SavesMade >= a.Threshold
	case model.RequirementGamesPlayed:
		return stats.GamesPlayed >= a.Threshold
	case model.RequirementBestStreak:
		return stats.BestStreak >= a.Threshold
	case model.RequirementTotalPoints:
		return stats.TotalPoints >= a.Threshold
	case model.RequirementPerfectGames:
		return stats.PerfectGames >= a.Threshold
	case model.RequirementAllrounder:
		return stats.GoalsScored >= a.Threshold && stats.SavesMade >= a.Threshold
	case model.RequirementSpecialOracle:
		return stats.PerfectSaveGames >= a.Threshold
	case model.RequirementSpecialLucky:
		return stats.NarrowWins >= a.Threshold
	}
	return false
}

func (s *achievementService) Evaluate(ctx context.Context, tx *gorm.DB, stats *model.UserStats) ([]model.Achievement, error) {
	repo := s.repo.WithTx(tx)

	unlocked, err := repo.UnlockedIDs(ctx, stats.UserID)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []model.Achievement
	for _, achievement := range s.catalog {
		if unlocked[achievement.ID] {
			continue
		}
		if !satisfied(achievement, stats) {
			continue
		}

		if err := repo.Unlock(ctx, &model.UserAchievement{
			UserID:        stats.UserID,
			AchievementID: achievement.ID,
		}); err != nil {
			return nil, err
		}

		if s.creditReward && achievement.PointsReward > 0 {
			stats.TotalPoints += achievement.PointsReward
		}

		newlyUnlocked = append(newlyUnlocked, achievement)
	}

	return newlyUnlocked, nil
}

func (s *achievementService) ListForUser(ctx context.Context, userID uuid.UUID) ([]dto.AchievementStatus, error) {
	unlockedRows, err := s.repo.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlockedAt := make(map[string]model.UserAchievement, len(unlockedRows))
	for _, row := range unlockedRows {
		unlockedAt[row.AchievementID] = row
	}

	statuses := make([]dto.AchievementStatus, 0, len(s.catalog))
	for _, achievement := range s.catalog {
		status := dto.AchievementStatus{Achievement: achievement}
		if row, ok := unlockedAt[achievement.ID]; ok {
			status.Unlocked = true
			t := row.UnlockedAt
			status.UnlockedAt = &t
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (s *achievementService) GetActiveBadge(ctx context.Context, userID uuid.UUID) (*model.ActiveBadge, error) {
	badge, err := s.repo.FindActiveBadge(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return badge, nil
}

func (s *achievementService) SetActiveBadge(ctx context.Context, userID uuid.UUID, achievementID string) (*model.ActiveBadge, error) {
	// The badge must point at one of the user's own unlocked achievements.
	unlocked, err := s.repo.UnlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !unlocked[achievementID] {
		return nil, apperror.ErrForbidden
	}

	badge := &model.ActiveBadge{
		UserID:        userID,
		AchievementID: achievementID,
	}
	if err := s.repo.UpsertActiveBadge(ctx, badge); err != nil {
		return nil, err
	}

	return badge, nil
}
