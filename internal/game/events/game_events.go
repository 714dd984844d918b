package events

import (
	"time"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// Event type constants
const (
	TypeActionExecuted    = "action.executed"
	TypeActionUndone      = "action.undone"
	TypeActionRedone      = "action.redone"
	TypeOrderRejected     = "order.rejected"
	TypeTurnStarted       = "turn.started"
	TypeTurnResolved      = "turn.resolved"
	TypeTurnAdvanced      = "turn.advanced"
	TypeUnitMoved         = "unit.moved"
	TypeTerritoryCaptured = "territory.captured"
	TypeVisibilityUpdated = "visibility.updated"
	TypeStateTransition   = "state.transition"
)

// ActionEvent is published when the command log executes, undoes or redoes
// an action.
type ActionEvent struct {
	BaseEvent
	Action string
	Dirty  string
}

// NewActionEvent creates an ActionEvent of one of the action.* types
func NewActionEvent(eventType, session string, turn int, action, dirty string) *ActionEvent {
	return &ActionEvent{
		BaseEvent: newBase(eventType, session, turn),
		Action:    action,
		Dirty:     dirty,
	}
}

// OrderRejectedEvent is published when an order cannot be queued
type OrderRejectedEvent struct {
	BaseEvent
	UnitID string
	Kind   core.OrderKind
	From   core.Coordinate
	To     core.Coordinate
	Reason string
}

// NewOrderRejectedEvent creates a new OrderRejectedEvent
func NewOrderRejectedEvent(session string, turn int, unitID string, kind core.OrderKind, from, to core.Coordinate, reason error) *OrderRejectedEvent {
	return &OrderRejectedEvent{
		BaseEvent: newBase(TypeOrderRejected, session, turn),
		UnitID:    unitID,
		Kind:      kind,
		From:      from,
		To:        to,
		Reason:    reason.Error(),
	}
}

// TurnStartedEvent is published when turn resolution begins
type TurnStartedEvent struct {
	BaseEvent
	Arrows int
	Units  int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(session string, turn, arrows, units int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent: newBase(TypeTurnStarted, session, turn),
		Arrows:    arrows,
		Units:     units,
	}
}

// TurnResolvedEvent is published after CommenceAllMoves
type TurnResolvedEvent struct {
	BaseEvent
	Moved    int
	Loaded   int
	Unloaded int
	Captured int
	Consumed int
	NoOp     bool
	Duration time.Duration
}

// NewTurnResolvedEvent creates a new TurnResolvedEvent
func NewTurnResolvedEvent(session string, turn, moved, loaded, unloaded, captured, consumed int, noop bool, d time.Duration) *TurnResolvedEvent {
	return &TurnResolvedEvent{
		BaseEvent: newBase(TypeTurnResolved, session, turn),
		Moved:     moved,
		Loaded:    loaded,
		Unloaded:  unloaded,
		Captured:  captured,
		Consumed:  consumed,
		NoOp:      noop,
		Duration:  d,
	}
}

// TurnAdvancedEvent is published when the turn counter moves on
type TurnAdvancedEvent struct {
	BaseEvent
	Previous    int
	Reactivated int
}

// NewTurnAdvancedEvent creates a new TurnAdvancedEvent
func NewTurnAdvancedEvent(session string, turn, previous, reactivated int) *TurnAdvancedEvent {
	return &TurnAdvancedEvent{
		BaseEvent:   newBase(TypeTurnAdvanced, session, turn),
		Previous:    previous,
		Reactivated: reactivated,
	}
}

// UnitMovedEvent is published for every unit the resolver relocated
type UnitMovedEvent struct {
	BaseEvent
	UnitID  string
	Nation  core.NationID
	From    core.Coordinate
	To      core.Coordinate
	Steps   int
	Partial bool
}

// NewUnitMovedEvent creates a new UnitMovedEvent
func NewUnitMovedEvent(session string, turn int, unitID string, nation core.NationID, from, to core.Coordinate, steps int, partial bool) *UnitMovedEvent {
	return &UnitMovedEvent{
		BaseEvent: newBase(TypeUnitMoved, session, turn),
		UnitID:    unitID,
		Nation:    nation,
		From:      from,
		To:        to,
		Steps:     steps,
		Partial:   partial,
	}
}

// TerritoryCapturedEvent is published when a tile changes owner through
// movement
type TerritoryCapturedEvent struct {
	BaseEvent
	At       core.Coordinate
	Previous core.NationID
	Owner    core.NationID
}

// NewTerritoryCapturedEvent creates a new TerritoryCapturedEvent
func NewTerritoryCapturedEvent(session string, turn int, at core.Coordinate, previous, owner core.NationID) *TerritoryCapturedEvent {
	return &TerritoryCapturedEvent{
		BaseEvent: newBase(TypeTerritoryCaptured, session, turn),
		At:        at,
		Previous:  previous,
		Owner:     owner,
	}
}

// VisibilityUpdatedEvent is published after fog of war is recomputed
type VisibilityUpdatedEvent struct {
	BaseEvent
	Viewer     core.NationID
	Visible    int
	Remembered int
	Hidden     int
}

// NewVisibilityUpdatedEvent creates a new VisibilityUpdatedEvent
func NewVisibilityUpdatedEvent(session string, turn int, viewer core.NationID, visible, remembered, hidden int) *VisibilityUpdatedEvent {
	return &VisibilityUpdatedEvent{
		BaseEvent:  newBase(TypeVisibilityUpdated, session, turn),
		Viewer:     viewer,
		Visible:    visible,
		Remembered: remembered,
		Hidden:     hidden,
	}
}

// StateTransitionEvent is published when the engine phase machine transitions
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(session string, turn int, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, session, turn),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
