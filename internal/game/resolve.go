package game

import (
	"fmt"

	"golazo.app/penaltyduel/pkg/apperror"
)

// Outcome of a finished match for one participant.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Round is the outcome of a single shot, kept for replay purposes.
type Round struct {
	Round int       `json:"round"`
	Shot  Direction `json:"shot"`
	Save  Direction `json:"save"`
	Goal  bool      `json:"goal"`
}

// Result of resolving a full match. Goals and Saves are complements:
// Goals + Saves == SequenceLength always.
type Result struct {
	Goals  int     `json:"goals"`
	Saves  int     `json:"saves"`
	Rounds []Round `json:"rounds"`
}

// Resolve compares the shooter's shots against the keeper's saves. A shot is
// saved only when both directions match exactly; any mismatch is a goal.
// Pure and deterministic, no I/O. Sequences must already be validated.
func Resolve(shots, saves []Direction) (Result, error) {
	if len(shots) != SequenceLength || len(saves) != SequenceLength {
		return Result{}, fmt.Errorf("%w: both sequences must have %d moves",
			apperror.ErrInvalidInput, SequenceLength)
	}

	result := Result{Rounds: make([]Round, SequenceLength)}
	for i := 0; i < SequenceLength; i++ {
		goal := shots[i] != saves[i]
		if goal {
			result.Goals++
		} else {
			result.Saves++
		}
		result.Rounds[i] = Round{
			Round: i + 1,
			Shot:  shots[i],
			Save:  saves[i],
			Goal:  goal,
		}
	}

	return result, nil
}

// ShooterOutcome determines win/loss/draw for the shooter: the shooter's score
// is their goals, the keeper's score is their saves.
func (r Result) ShooterOutcome() Outcome {
	switch {
	case r.Goals > r.Saves:
		return OutcomeWin
	case r.Goals < r.Saves:
		return OutcomeLoss
	}
	return OutcomeDraw
}

// KeeperOutcome is the keeper-side complement of ShooterOutcome.
func (r Result) KeeperOutcome() Outcome {
	switch r.ShooterOutcome() {
	case OutcomeWin:
		return OutcomeLoss
	case OutcomeLoss:
		return OutcomeWin
	}
	return OutcomeDraw
}

// Margin is the absolute score difference between the two sides.
func (r Result) Margin() int {
	if r.Goals > r.Saves {
		return r.Goals - r.Saves
	}
	return r.Saves - r.Goals
}
