package model

import (
	"time"

	"github.com/google/uuid"
)

// UserStats is the cumulative performance record of one user. It is mutated
// exclusively by match resolution (and corrective admin action), never by
// direct user requests.
type UserStats struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	TotalPoints   int `gorm:"default:0" json:"total_points"`
	GamesPlayed   int `gorm:"default:0" json:"games_played"`
	GamesWon      int `gorm:"default:0" json:"games_won"`
	GamesLost     int `gorm:"default:0" json:"games_lost"`
	GamesDrawn    int `gorm:"default:0" json:"games_drawn"`
	GoalsScored   int `gorm:"default:0" json:"goals_scored"`
	SavesMade     int `gorm:"default:0" json:"saves_made"`
	CurrentStreak int `gorm:"default:0" json:"current_streak"`
	BestStreak    int `gorm:"default:0" json:"best_streak"`
	PerfectGames  int `gorm:"default:0" json:"perfect_games"`

	// Auxiliary counters maintained at resolution time. Cumulative stats alone
	// cannot answer "was there ever a 5/5 keeper game" or "how many wins were
	// decided by exactly one point", so both are tracked as they happen.
	PerfectSaveGames int `gorm:"default:0" json:"perfect_save_games"`
	NarrowWins       int `gorm:"default:0" json:"narrow_wins"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
