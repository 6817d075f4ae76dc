package game

import (
	"fmt"
	"strings"

	"golazo.app/penaltyduel/pkg/apperror"
)

// Direction is one of the three fixed move tokens.
type Direction string

const (
	DirectionLeft   Direction = "left"
	DirectionCenter Direction = "center"
	DirectionRight  Direction = "right"
)

// SequenceLength is the exact number of rounds in every match.
const SequenceLength = 5

// ValidDirection reports whether d is one of the three move tokens.
func ValidDirection(d Direction) bool {
	switch d {
	case DirectionLeft, DirectionCenter, DirectionRight:
		return true
	}
	return false
}

// ParseSequence validates a submitted move sequence: exactly SequenceLength
// elements, each a valid direction token. It has no side effects; failures
// wrap apperror.ErrInvalidInput so callers surface a rejected submission.
func ParseSequence(tokens []string) ([]Direction, error) {
	if len(tokens) != SequenceLength {
		return nil, fmt.Errorf("%w: move sequence must contain exactly %d moves, got %d",
			apperror.ErrInvalidInput, SequenceLength, len(tokens))
	}

	moves := make([]Direction, SequenceLength)
	for i, token := range tokens {
		d := Direction(strings.ToLower(strings.TrimSpace(token)))
		if !ValidDirection(d) {
			return nil, fmt.Errorf("%w: invalid move %q at position %d",
				apperror.ErrInvalidInput, token, i+1)
		}
		moves[i] = d
	}

	return moves, nil
}

// EncodeSequence serializes a move sequence for storage.
func EncodeSequence(moves []Direction) string {
	tokens := make([]string, len(moves))
	for i, m := range moves {
		tokens[i] = string(m)
	}
	return strings.Join(tokens, ",")
}

// DecodeSequence restores a stored move sequence.
func DecodeSequence(raw string) ([]Direction, error) {
	return ParseSequence(strings.Split(raw, ","))
}
