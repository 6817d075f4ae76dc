package dto

import (
	"time"

	"golazo.app/penaltyduel/internal/model"
)

type AchievementStatus struct {
	model.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

type SetActiveBadgeRequest struct {
	AchievementID string `json:"achievement_id" binding:"required"`
}
