package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapOrderError(t *testing.T) {
	tests := []struct {
		name     string
		kind     OrderKind
		from, to Coordinate
		err      error
		expected string
		isNil    bool
	}{
		{
			name:  "nil error returns nil",
			err:   nil,
			isNil: true,
		},
		{
			name:     "move out of reach",
			kind:     OrderMove,
			from:     Coordinate{5, 3},
			to:       Coordinate{5, 9},
			err:      ErrOutOfReach,
			expected: "unit u1: Move from (5,3) to (5,9): destination out of reach",
		},
		{
			name:     "attack outside template",
			kind:     OrderAttack,
			from:     Coordinate{1, 1},
			to:       Coordinate{4, 1},
			err:      ErrTargetOutsideTemplate,
			expected: "unit u1: Attack from (1,1) to (4,1): target outside action template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapOrderError("u1", tt.kind, tt.from, tt.to, tt.err)
			if tt.isNil {
				assert.Nil(t, wrapped)
				return
			}
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.expected, wrapped.Error())
			assert.True(t, errors.Is(wrapped, tt.err))

			var orderErr *OrderError
			require.True(t, errors.As(wrapped, &orderErr))
			assert.Equal(t, "u1", orderErr.UnitID)
		})
	}
}

func TestWrapTurnError(t *testing.T) {
	assert.Nil(t, WrapTurnError(3, "resolve", nil))

	err := WrapTurnError(3, "resolve", ErrResolving)
	assert.Equal(t, "turn 3 (resolve): turn resolution in progress", err.Error())
	assert.ErrorIs(t, err, ErrResolving)
}
