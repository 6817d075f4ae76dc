package repository

import (
	"context"

	"github.com/google/uuid"
	"golazo.app/penaltyduel/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository interface {
	WithTx(tx *gorm.DB) AchievementRepository

	// SeedCatalog inserts missing catalog rows at process start. Existing rows
	// are left untouched; the catalog is immutable at runtime.
	SeedCatalog(ctx context.Context, catalog []model.Achievement) error
	ListCatalog(ctx context.Context) ([]model.Achievement, error)

	ListUnlocked(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error)
	// UnlockedIDs returns the set of achievement ids the user already holds.
	UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
	Unlock(ctx context.Context, unlock *model.UserAchievement) error

	FindActiveBadge(ctx context.Context, userID uuid.UUID) (*model.ActiveBadge, error)
	UpsertActiveBadge(ctx context.Context, badge *model.ActiveBadge) error
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) WithTx(tx *gorm.DB) AchievementRepository {
	if tx == nil {
		return r
	}
	return &achievementRepository{db: tx}
}

func (r *achievementRepository) SeedCatalog(ctx context.Context, catalog []model.Achievement) error {
	for _, achievement := range catalog {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&model.Achievement{}).
			Where("id = ?", achievement.ID).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := r.db.WithContext(ctx).Create(&achievement).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *achievementRepository) ListCatalog(ctx context.Context) ([]model.Achievement, error) {
	var catalog []model.Achievement
	if err := r.db.WithContext(ctx).
		Order("sort_order asc").
		Find(&catalog).Error; err != nil {
		return nil, err
	}

	return catalog, nil
}

func (r *achievementRepository) ListUnlocked(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	var unlocked []model.UserAchievement
	if err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at desc").
		Find(&unlocked).Error; err != nil {
		return nil, err
	}

	return unlocked, nil
}

func (r *achievementRepository) UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error; err != nil {
		return nil, err
	}

	unlocked := make(map[string]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}

	return unlocked, nil
}

func (r *achievementRepository) Unlock(ctx context.Context, unlock *model.UserAchievement) error {
	// DoNothing keeps the insert idempotent if two resolutions race.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(unlock).Error
}

func (r *achievementRepository) FindActiveBadge(ctx context.Context, userID uuid.UUID) (*model.ActiveBadge, error) {
	var badge model.ActiveBadge
	if err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		First(&badge).Error; err != nil {
		return nil, err
	}

	return &badge, nil
}

func (r *achievementRepository) UpsertActiveBadge(ctx context.Context, badge *model.ActiveBadge) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"achievement_id", "updated_at"}),
		}).
		Create(badge).Error
}
