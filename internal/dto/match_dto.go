package dto

import (
	"time"

	"github.com/google/uuid"
	"golazo.app/penaltyduel/internal/game"
	"golazo.app/penaltyduel/internal/model"
)

type CreateMatchRequest struct {
	// Exactly one of the two must be set.
	OpponentUsername *string `json:"opponent_username" binding:"omitempty,min=3,max=50"`
	OpponentEmail    *string `json:"opponent_email" binding:"omitempty,email"`
}

type SubmitMovesRequest struct {
	Moves []string `json:"moves" binding:"required,len=5,dive,oneof=left center right"`
}

type PlayerSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarID  int       `json:"avatar_id"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

type MatchResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PlayerA       *PlayerSummary `json:"player_a,omitempty"`
	PlayerB       *PlayerSummary `json:"player_b,omitempty"`
	OpponentEmail string         `json:"opponent_email,omitempty"`

	// Role of the requesting user, when they participate.
	YourRole game.Role `json:"your_role,omitempty"`

	PlayerASubmitted bool `json:"player_a_submitted"`
	PlayerBSubmitted bool `json:"player_b_submitted"`

	WinnerID *uuid.UUID `json:"winner_id,omitempty"`
	Goals    int        `json:"goals"`
	Saves    int        `json:"saves"`
	// Rounds carries the per-round replay, present only once finished.
	Rounds []game.Round `json:"rounds,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func playerSummary(u *model.User) *PlayerSummary {
	if u == nil {
		return nil
	}
	return &PlayerSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarID:  u.AvatarID,
		AvatarURL: u.AvatarURL,
	}
}

// NewMatchResponse builds the API view of a match for the given viewer. Replay
// rounds are included only for finished matches; an unfinished opponent email
// is hidden from the invited side.
func NewMatchResponse(m *model.Match, viewerID uuid.UUID) MatchResponse {
	resp := MatchResponse{
		ID:               m.ID,
		Status:           m.Status,
		PlayerA:          playerSummary(m.PlayerA),
		PlayerB:          playerSummary(m.PlayerB),
		PlayerASubmitted: m.PlayerAMoves != nil,
		PlayerBSubmitted: m.PlayerBMoves != nil,
		WinnerID:         m.WinnerID,
		CreatedAt:        m.CreatedAt,
		FinishedAt:       m.FinishedAt,
	}

	if m.PlayerAID == viewerID {
		resp.YourRole = game.RoleShooter
		resp.OpponentEmail = m.PlayerBEmail
	} else if m.PlayerBID != nil && *m.PlayerBID == viewerID {
		resp.YourRole = game.RoleKeeper
	}

	if m.IsFinished() {
		resp.Goals = m.Goals
		resp.Saves = m.Saves

		shots, errA := game.DecodeSequence(derefString(m.PlayerAMoves))
		saves, errB := game.DecodeSequence(derefString(m.PlayerBMoves))
		if errA == nil && errB == nil {
			if result, err := game.Resolve(shots, saves); err == nil {
				resp.Rounds = result.Rounds
			}
		}
	}

	return resp
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
