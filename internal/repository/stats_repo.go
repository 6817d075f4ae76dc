package repository

import (
	"context"

	"github.com/google/uuid"
	"golazo.app/penaltyduel/internal/model"
	"gorm.io/gorm"
)

type StatsRepository interface {
	WithTx(tx *gorm.DB) StatsRepository

	Find(ctx context.Context, userID uuid.UUID) (*model.UserStats, error)
	// GetOrCreate returns the user's stats row, creating a zeroed one on the
	// user's first game.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.UserStats, error)
	Save(ctx context.Context, stats *model.UserStats) error
	// Reset zeroes all counters (corrective admin action).
	Reset(ctx context.Context, userID uuid.UUID) error
	GetTopUsers(ctx context.Context, limit int) ([]model.UserStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) WithTx(tx *gorm.DB) StatsRepository {
	if tx == nil {
		return r
	}
	return &statsRepository{db: tx}
}

func (r *statsRepository) Find(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	var stats model.UserStats
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&stats).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *statsRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	var stats model.UserStats
	if err := r.db.WithContext(ctx).
		Where(model.UserStats{UserID: userID}).
		FirstOrCreate(&stats).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *statsRepository) Save(ctx context.Context, stats *model.UserStats) error {
	return r.db.WithContext(ctx).Save(stats).Error
}

func (r *statsRepository) Reset(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.UserStats{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_points":       0,
			"games_played":       0,
			"games_won":          0,
			"games_lost":         0,
			"games_drawn":        0,
			"goals_scored":       0,
			"saves_made":         0,
			"current_streak":     0,
			"best_streak":        0,
			"perfect_games":      0,
			"perfect_save_games": 0,
			"narrow_wins":        0,
		}).Error
}

func (r *statsRepository) GetTopUsers(ctx context.Context, limit int) ([]model.UserStats, error) {
	var stats []model.UserStats
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("total_points desc").
		Limit(limit).
		Find(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
