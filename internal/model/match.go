package model

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MatchStatusInvitationPending means the challenged email has no account yet.
	MatchStatusInvitationPending = "invitation_pending"
	// MatchStatusWaiting means the opponent is known and at least one side has
	// not submitted moves yet.
	MatchStatusWaiting = "waiting"
	// MatchStatusFinished is terminal: both move sequences are present and the
	// match has been resolved.
	MatchStatusFinished = "finished"
)

// Match is a contest between two participants. The challenger (player A)
// shoots, the challenged side (player B) keeps. Move sequences are stored as
// comma-joined direction tokens and are absent until that side submits.
type Match struct {
	ID string `gorm:"primaryKey;size:12" json:"id"`

	PlayerAID uuid.UUID `gorm:"type:uuid;not null;index" json:"player_a_id"`
	PlayerA   *User     `gorm:"foreignKey:PlayerAID" json:"player_a,omitempty"`

	// Player B may be known only by email until the invited user registers.
	PlayerBID    *uuid.UUID `gorm:"type:uuid;index" json:"player_b_id,omitempty"`
	PlayerB      *User      `gorm:"foreignKey:PlayerBID" json:"player_b,omitempty"`
	PlayerBEmail string     `gorm:"size:100;index" json:"player_b_email,omitempty"`

	PlayerAMoves *string `gorm:"size:100" json:"-"`
	PlayerBMoves *string `gorm:"size:100" json:"-"`

	Status   string     `gorm:"size:20;not null;default:'waiting';index" json:"status"`
	WinnerID *uuid.UUID `gorm:"type:uuid" json:"winner_id,omitempty"`

	// Resolved summary: goals by the shooter (player A), saves by the keeper
	// (player B). Zero until the match is finished.
	Goals int `gorm:"default:0" json:"goals"`
	Saves int `gorm:"default:0" json:"saves"`

	// InviteToken lets an invited email claim the match at registration.
	InviteToken string `gorm:"size:32;uniqueIndex" json:"-"`

	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

const matchIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		id, err := randomCode(10)
		if err != nil {
			return err
		}
		m.ID = id
	}
	if m.InviteToken == "" {
		token, err := randomCode(24)
		if err != nil {
			return err
		}
		m.InviteToken = token
	}
	return nil
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(matchIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = matchIDAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsFinished reports whether the match reached its terminal state.
func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// IsParticipant reports whether the given user plays in this match.
func (m *Match) IsParticipant(userID uuid.UUID) bool {
	if m.PlayerAID == userID {
		return true
	}
	return m.PlayerBID != nil && *m.PlayerBID == userID
}
