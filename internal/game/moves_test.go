package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golazo.app/penaltyduel/pkg/apperror"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		want    []Direction
		wantErr bool
	}{
		{
			name:   "valid sequence",
			tokens: []string{"left", "center", "right", "left", "center"},
			want:   []Direction{DirectionLeft, DirectionCenter, DirectionRight, DirectionLeft, DirectionCenter},
		},
		{
			name:   "mixed case and whitespace",
			tokens: []string{"Left", " center ", "RIGHT", "left", "right"},
			want:   []Direction{DirectionLeft, DirectionCenter, DirectionRight, DirectionLeft, DirectionRight},
		},
		{
			name:    "too short",
			tokens:  []string{"left", "center", "right"},
			wantErr: true,
		},
		{
			name:    "too long",
			tokens:  []string{"left", "center", "right", "left", "center", "right"},
			wantErr: true,
		},
		{
			name:    "empty",
			tokens:  []string{},
			wantErr: true,
		},
		{
			name:    "invalid token",
			tokens:  []string{"left", "center", "up", "left", "right"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSequence(tt.tokens)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperror.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecodeSequence(t *testing.T) {
	moves := []Direction{DirectionLeft, DirectionLeft, DirectionRight, DirectionCenter, DirectionRight}

	encoded := EncodeSequence(moves)
	assert.Equal(t, "left,left,right,center,right", encoded)

	decoded, err := DecodeSequence(encoded)
	require.NoError(t, err)
	assert.Equal(t, moves, decoded)
}

func TestDecodeSequenceRejectsGarbage(t *testing.T) {
	_, err := DecodeSequence("left,center")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = DecodeSequence("")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
