package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates    = errors.New("invalid coordinates")
	ErrUnknownUnit           = errors.New("unknown unit")
	ErrUnknownUnitType       = errors.New("unknown unit type")
	ErrUnknownTerrain        = errors.New("unknown terrain")
	ErrUnknownOrderKind      = errors.New("unknown order kind")
	ErrInvalidStat           = errors.New("invalid stat value")
	ErrInvalidModifier       = errors.New("invalid stat modifier")
	ErrChainCycle            = errors.New("order chain contains a cycle")
	ErrNoPath                = errors.New("no path to destination")
	ErrOutOfReach            = errors.New("destination out of reach")
	ErrOverBudget            = errors.New("order chain exceeds unit speed")
	ErrSuppressed            = errors.New("unit is suppressed")
	ErrTargetOutsideTemplate = errors.New("target outside action template")
	ErrHiddenTile            = errors.New("tile is hidden")
	ErrCannotCarry           = errors.New("transporter cannot carry unit")
	ErrResolving             = errors.New("turn resolution in progress")
	ErrEditsClosed           = errors.New("engine does not accept edits in this phase")
	ErrNothingToUndo         = errors.New("nothing to undo")
	ErrNothingToRedo         = errors.New("nothing to redo")
	ErrNotANation            = errors.New("unknown nation")
)

// OrderError describes a rejected order for a specific unit.
type OrderError struct {
	UnitID string
	Kind   OrderKind
	From   Coordinate
	To     Coordinate
	Err    error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("unit %s: %s from %s to %s: %v", e.UnitID, e.Kind, e.From, e.To, e.Err)
}

func (e *OrderError) Unwrap() error { return e.Err }

// WrapOrderError attaches order context to err. A nil err stays nil.
func WrapOrderError(unitID string, kind OrderKind, from, to Coordinate, err error) error {
	if err == nil {
		return nil
	}
	return &OrderError{UnitID: unitID, Kind: kind, From: from, To: to, Err: err}
}

// TurnError reports a failure during a turn phase.
type TurnError struct {
	Turn  int
	Phase string
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %d (%s): %v", e.Turn, e.Phase, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// WrapTurnError attaches turn context to err. A nil err stays nil.
func WrapTurnError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return &TurnError{Turn: turn, Phase: phase, Err: err}
}
