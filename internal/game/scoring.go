package game

import "golazo.app/penaltyduel/internal/model"

// Point economy: points are per-event, not winner-take-all. The losing or
// drawing side still banks points for its own goals/saves.
const (
	PointsPerGoal = 10
	PointsPerSave = 15
)

// Role of a participant within one match.
type Role string

const (
	RoleShooter Role = "shooter"
	RoleKeeper  Role = "keeper"
)

// Performance is the per-role view of a resolved match: the shooter variant
// carries goals, the keeper variant carries saves.
type Performance struct {
	Role  Role `json:"role"`
	Goals int  `json:"goals,omitempty"`
	Saves int  `json:"saves,omitempty"`
}

// ShooterPerformance extracts the shooter-side performance from a result.
func ShooterPerformance(r Result) Performance {
	return Performance{Role: RoleShooter, Goals: r.Goals}
}

// KeeperPerformance extracts the keeper-side performance from a result.
func KeeperPerformance(r Result) Performance {
	return Performance{Role: RoleKeeper, Saves: r.Saves}
}

// Score is the participant's match score: goals for the shooter, saves for
// the keeper.
func (p Performance) Score() int {
	if p.Role == RoleKeeper {
		return p.Saves
	}
	return p.Goals
}

// Points earned by this performance alone, before achievement rewards.
func (p Performance) Points() int {
	if p.Role == RoleKeeper {
		return p.Saves * PointsPerSave
	}
	return p.Goals * PointsPerGoal
}

// Perfect reports whether the participant achieved the maximum possible
// outcome for their role (5/5).
func (p Performance) Perfect() bool {
	return p.Score() == SequenceLength
}

// ApplyToStats applies one finished match to a participant's cumulative stats
// row. margin is the absolute score difference of the match, used to track
// wins decided by exactly one point. Callers must persist the row inside the
// same transaction that finishes the match, so that a match is never scored
// twice and never applied to only one participant.
func ApplyToStats(stats *model.UserStats, p Performance, outcome Outcome, margin int) {
	stats.GamesPlayed++

	switch outcome {
	case OutcomeWin:
		stats.GamesWon++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.BestStreak {
			stats.BestStreak = stats.CurrentStreak
		}
		if margin == 1 {
			stats.NarrowWins++
		}
	case OutcomeLoss:
		stats.GamesLost++
		stats.CurrentStreak = 0
	case OutcomeDraw:
		stats.GamesDrawn++
		stats.CurrentStreak = 0
	}

	switch p.Role {
	case RoleShooter:
		stats.GoalsScored += p.Goals
	case RoleKeeper:
		stats.SavesMade += p.Saves
	}

	stats.TotalPoints += p.Points()

	if p.Perfect() {
		stats.PerfectGames++
		if p.Role == RoleKeeper {
			stats.PerfectSaveGames++
		}
	}
}
