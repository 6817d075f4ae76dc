package game

import "math"

// Tier is a named band of cumulative points. Tiers are ordered by MinPoints
// and non-overlapping; each tier spans [MinPoints, nextTier.MinPoints) and the
// top tier is open-ended.
type Tier struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	MinPoints int    `json:"min_points"`
}

// Tiers is the static tier table, ordered ascending by MinPoints.
var Tiers = []Tier{
	{Name: "Rookie", Icon: "🥉", MinPoints: 0},
	{Name: "Amateur", Icon: "⚽", MinPoints: 500},
	{Name: "Semi-Pro", Icon: "🥈", MinPoints: 1500},
	{Name: "Professional", Icon: "🥇", MinPoints: 3000},
	{Name: "Star", Icon: "⭐", MinPoints: 6000},
	{Name: "Legend", Icon: "🏆", MinPoints: 10000},
}

// Level is the computed level status for a points total.
type Level struct {
	Tier         Tier  `json:"tier"`
	Next         *Tier `json:"next_tier,omitempty"` // nil at the top tier
	Progress     int   `json:"progress"`            // whole-number % toward next tier
	PointsToNext int   `json:"points_to_next"`      // 0 at the top tier
}

// CalculateLevel maps a cumulative points total onto its tier, with progress
// toward the next tier. Pure function, callable at any time from a stored
// total_points value.
func CalculateLevel(points int) Level {
	if points < 0 {
		points = 0
	}

	idx := 0
	for i, tier := range Tiers {
		if points >= tier.MinPoints {
			idx = i
		}
	}

	level := Level{Tier: Tiers[idx]}
	if idx == len(Tiers)-1 {
		level.Progress = 100
		return level
	}

	next := Tiers[idx+1]
	level.Next = &next
	level.PointsToNext = next.MinPoints - points

	span := float64(next.MinPoints - level.Tier.MinPoints)
	level.Progress = int(math.Round(float64(points-level.Tier.MinPoints) / span * 100))

	return level
}
