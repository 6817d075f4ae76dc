package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	AvatarID     int       `gorm:"default:0" json:"avatar_id"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`

	// Preferences
	Language           string `gorm:"size:5;default:'en'" json:"language"`
	EmailNotifications bool   `gorm:"default:true" json:"email_notifications"`

	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	IsBlocked bool      `gorm:"default:false" json:"is_blocked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Stats *UserStats `gorm:"constraint:OnDelete:CASCADE" json:"stats,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
