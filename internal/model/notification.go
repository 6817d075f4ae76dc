package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationChallengeReceived   = "challenge_received"
	NotificationMatchFinished       = "match_finished"
	NotificationAchievementUnlocked = "achievement_unlocked"
	NotificationLevelUp             = "level_up"
)

type Notification struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          string    `gorm:"type:varchar(50);not null" json:"type"`
	MatchID       *string   `gorm:"size:12" json:"match_id,omitempty"`
	AchievementID *string   `gorm:"size:50" json:"achievement_id,omitempty"`
	Message       string    `gorm:"type:text" json:"message"`
	IsRead        bool      `gorm:"default:false" json:"is_read"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
