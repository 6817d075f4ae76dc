package model

import (
	"time"

	"github.com/google/uuid"
)

// Achievement categories
const (
	AchievementCategoryShooter    = "shooter"
	AchievementCategoryGoalkeeper = "goalkeeper"
	AchievementCategoryGeneral    = "general"
	AchievementCategorySpecial    = "special"
)

// Requirement types evaluated against UserStats fields
const (
	RequirementGoalsScored  = "goals_scored"
	RequirementSavesMade    = "saves_made"
	RequirementGamesPlayed  = "games_played"
	RequirementBestStreak   = "best_streak"
	RequirementTotalPoints  = "total_points"
	RequirementPerfectGames = "perfect_games"
	// Composite rules
	RequirementAllrounder    = "allrounder"     // goals AND saves both >= threshold
	RequirementSpecialOracle = "special_oracle" // perfect 5/5 keeper games >= threshold
	RequirementSpecialLucky  = "special_lucky"  // wins by exactly one point >= threshold
)

// Achievement is static catalog data (read-only reference, seeded at startup).
type Achievement struct {
	ID              string    `gorm:"primaryKey;size:50" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	Icon            string    `gorm:"size:50" json:"icon"`
	Category        string    `gorm:"size:20;not null;index" json:"category"`
	RequirementType string    `gorm:"size:30;not null" json:"requirement_type"`
	Threshold       int       `gorm:"not null" json:"threshold"`
	PointsReward    int       `gorm:"default:0" json:"points_reward"`
	SortOrder       int       `gorm:"default:0" json:"sort_order"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"-"`
}

// UserAchievement marks an unlock. Insert-only: rows are never removed by
// normal play, and the composite key keeps unlocks at-most-once.
type UserAchievement struct {
	UserID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"user_id"`
	AchievementID string       `gorm:"size:50;primaryKey" json:"achievement_id"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	UnlockedAt    time.Time    `gorm:"autoCreateTime" json:"unlocked_at"`
}

// ActiveBadge points at the one unlocked achievement a user displays.
type ActiveBadge struct {
	UserID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"user_id"`
	AchievementID string       `gorm:"size:50;not null" json:"achievement_id"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultAchievements is the static catalog seeded at process start.
var DefaultAchievements = []Achievement{
	{ID: "first_goal", Name: "First Goal", Description: "Score your first goal", Icon: "⚽", Category: AchievementCategoryShooter, RequirementType: RequirementGoalsScored, Threshold: 1, PointsReward: 0, SortOrder: 10},
	{ID: "sharpshooter", Name: "Sharpshooter", Description: "Score 50 goals", Icon: "🎯", Category: AchievementCategoryShooter, RequirementType: RequirementGoalsScored, Threshold: 50, PointsReward: 50, SortOrder: 20},
	{ID: "goal_machine", Name: "Goal Machine", Description: "Score 250 goals", Icon: "🚀", Category: AchievementCategoryShooter, RequirementType: RequirementGoalsScored, Threshold: 250, PointsReward: 150, SortOrder: 30},

	{ID: "safe_hands", Name: "Safe Hands", Description: "Make your first save", Icon: "🧤", Category: AchievementCategoryGoalkeeper, RequirementType: RequirementSavesMade, Threshold: 1, PointsReward: 0, SortOrder: 40},
	{ID: "the_wall", Name: "The Wall", Description: "Make 50 saves", Icon: "🧱", Category: AchievementCategoryGoalkeeper, RequirementType: RequirementSavesMade, Threshold: 50, PointsReward: 50, SortOrder: 50},
	{ID: "cat_reflexes", Name: "Cat Reflexes", Description: "Make 250 saves", Icon: "🐈", Category: AchievementCategoryGoalkeeper, RequirementType: RequirementSavesMade, Threshold: 250, PointsReward: 150, SortOrder: 60},

	{ID: "debut", Name: "Debut", Description: "Play your first match", Icon: "🌱", Category: AchievementCategoryGeneral, RequirementType: RequirementGamesPlayed, Threshold: 1, PointsReward: 0, SortOrder: 70},
	{ID: "regular", Name: "Regular", Description: "Play 25 matches", Icon: "📅", Category: AchievementCategoryGeneral, RequirementType: RequirementGamesPlayed, Threshold: 25, PointsReward: 25, SortOrder: 80},
	{ID: "veteran", Name: "Veteran", Description: "Play 100 matches", Icon: "🎖️", Category: AchievementCategoryGeneral, RequirementType: RequirementGamesPlayed, Threshold: 100, PointsReward: 100, SortOrder: 90},
	{ID: "on_a_roll", Name: "On a Roll", Description: "Win 3 matches in a row", Icon: "🔥", Category: AchievementCategoryGeneral, RequirementType: RequirementBestStreak, Threshold: 3, PointsReward: 25, SortOrder: 100},
	{ID: "unstoppable", Name: "Unstoppable", Description: "Win 10 matches in a row", Icon: "⚡", Category: AchievementCategoryGeneral, RequirementType: RequirementBestStreak, Threshold: 10, PointsReward: 100, SortOrder: 110},
	{ID: "collector", Name: "Collector", Description: "Reach 1000 points", Icon: "💰", Category: AchievementCategoryGeneral, RequirementType: RequirementTotalPoints, Threshold: 1000, PointsReward: 50, SortOrder: 120},
	{ID: "allrounder", Name: "All-Rounder", Description: "Score 100 goals and make 100 saves", Icon: "🔄", Category: AchievementCategoryGeneral, RequirementType: RequirementAllrounder, Threshold: 100, PointsReward: 200, SortOrder: 130},

	{ID: "flawless", Name: "Flawless", Description: "Achieve 5 perfect games", Icon: "💎", Category: AchievementCategorySpecial, RequirementType: RequirementPerfectGames, Threshold: 5, PointsReward: 100, SortOrder: 140},
	{ID: "oracle", Name: "Oracle", Description: "Save all 5 shots in a single match", Icon: "🔮", Category: AchievementCategorySpecial, RequirementType: RequirementSpecialOracle, Threshold: 1, PointsReward: 75, SortOrder: 150},
	{ID: "lucky_one", Name: "Lucky One", Description: "Win 5 matches by a single point", Icon: "🍀", Category: AchievementCategorySpecial, RequirementType: RequirementSpecialLucky, Threshold: 5, PointsReward: 50, SortOrder: 160},
}
