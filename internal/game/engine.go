package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/combat"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/command"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/events"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/processor"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/rules"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/states"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/territory"
)

// Engine owns one world and serialises every mutation of it through the
// command log. It is not safe for concurrent use.
type Engine struct {
	world            *core.World
	sessionID        string
	viewer           core.NationID
	mode             rules.Mode
	defaultLoadCost  float64
	captureTerritory bool
	fog              FogConfig
	rng              *rand.Rand
	logger           zerolog.Logger

	planner   *rules.Planner
	validator *processor.Validator
	resolver  *processor.TurnResolver
	combat    *combat.Resolver
	legal     *rules.LegalOrderCalculator
	territory *territory.Cache

	log           *command.Log
	eventBus      *events.EventBus
	stateMachine  *states.StateMachine
	turnProcessor *TurnProcessor
}

// NewEngine builds an engine from cfg and opens the first planning phase
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// bind points every rules component at w.
func (e *Engine) bind(w *core.World) {
	e.world = w
	e.planner = rules.NewPlanner(w, e.mode, e.logger)
	e.planner.SetDefaultLoadCost(e.defaultLoadCost)
	e.validator = processor.NewValidator(e.planner, e.logger)
	e.resolver = processor.NewTurnResolver(e.planner, e.logger)
	e.resolver.SetCaptureTerritory(e.captureTerritory)
	e.combat = combat.NewResolver(e.planner)
	e.legal = rules.NewLegalOrderCalculator(e.planner)
	e.territory = territory.NewCache(w, e.logger)
	e.log.MarkDirty(command.DirtyAll)
}

func (e *Engine) World() *core.World           { return e.world }
func (e *Engine) SessionID() string            { return e.sessionID }
func (e *Engine) Turn() int                    { return e.world.Turn }
func (e *Engine) Phase() states.Phase          { return e.stateMachine.CurrentPhase() }
func (e *Engine) History() []states.Transition { return e.stateMachine.History() }
func (e *Engine) EventBus() *events.EventBus   { return e.eventBus }
func (e *Engine) Planner() *rules.Planner      { return e.planner }
func (e *Engine) Mode() rules.Mode             { return e.mode }
func (e *Engine) Viewer() core.NationID        { return e.viewer }
func (e *Engine) CanUndo() bool                { return e.log.CanUndo() }
func (e *Engine) CanRedo() bool                { return e.log.CanRedo() }

// SetViewer changes whose fog the board shows. The empty id views as nobody.
func (e *Engine) SetViewer(n core.NationID) error {
	if n != "" {
		if _, ok := e.world.Nations[n]; !ok {
			return fmt.Errorf("%w: %s", core.ErrNotANation, n)
		}
	}
	e.viewer = n
	e.log.MarkDirty(command.DirtyFog)
	e.RecomputeNow()
	return nil
}

// SetEditorMode switches between editor rules (no fog, no fog-blocked
// pathing) and player rules.
func (e *Engine) SetEditorMode(on bool) {
	e.mode = rules.ModePlayer
	if on {
		e.mode = rules.ModeEditor
	}
	e.planner.SetMode(e.mode)
	e.log.MarkDirty(command.DirtyFog | command.DirtyOrders)
	e.RecomputeNow()
}

// LoadWorld replaces the world, drops the undo history and derives every
// view again.
func (e *Engine) LoadWorld(w *core.World) error {
	phase := e.stateMachine.CurrentPhase()
	if phase == states.PhaseResolving {
		return core.WrapTurnError(e.world.Turn, phase.String(), core.ErrResolving)
	}
	if phase != states.PhaseInitializing {
		if err := e.stateMachine.TransitionTo(states.PhaseInitializing, "Loading world"); err != nil {
			return err
		}
	}

	e.bind(w)
	e.log.Clear()
	e.log.MarkDirty(command.DirtyAll)
	if e.viewer != "" {
		if _, ok := w.Nations[e.viewer]; !ok {
			e.viewer = ""
		}
	}
	sessionCtx := e.stateMachine.Context()
	sessionCtx.Turn = w.Turn
	sessionCtx.Nations = len(w.Nations)
	e.RecomputeNow()

	e.logger.Info().
		Int("width", w.Board.W).
		Int("height", w.Board.H).
		Int("units", len(w.Units)).
		Int("turn", w.Turn).
		Msg("World loaded")
	return e.stateMachine.TransitionTo(states.PhasePlanning, "World loaded")
}

// Close ends the session. The engine can be revived with LoadWorld.
func (e *Engine) Close() error {
	return e.stateMachine.TransitionTo(states.PhaseEnded, "Session closed")
}

func (e *Engine) guardEdits() error {
	phase := e.stateMachine.CurrentPhase()
	switch {
	case phase == states.PhaseResolving:
		return core.WrapTurnError(e.world.Turn, phase.String(), core.ErrResolving)
	case !phase.AcceptsEdits():
		return core.WrapTurnError(e.world.Turn, phase.String(), core.ErrEditsClosed)
	}
	return nil
}

// Do executes a through the command log and recomputes derived views.
func (e *Engine) Do(a command.Action) error {
	if err := e.guardEdits(); err != nil {
		return err
	}
	e.log.Do(e.world, a)
	e.publishAction(events.TypeActionExecuted, a)
	e.RecomputeNow()
	return nil
}

// Undo reverts the most recent action.
func (e *Engine) Undo() (command.Action, error) {
	if err := e.guardEdits(); err != nil {
		return nil, err
	}
	a, err := e.log.Undo(e.world)
	if err != nil {
		return nil, err
	}
	e.publishAction(events.TypeActionUndone, a)
	e.RecomputeNow()
	return a, nil
}

// Redo re-applies the most recently undone action.
func (e *Engine) Redo() (command.Action, error) {
	if err := e.guardEdits(); err != nil {
		return nil, err
	}
	a, err := e.log.Redo(e.world)
	if err != nil {
		return nil, err
	}
	e.publishAction(events.TypeActionRedone, a)
	e.RecomputeNow()
	return a, nil
}

func (e *Engine) publishAction(eventType string, a command.Action) {
	e.eventBus.Publish(events.NewActionEvent(eventType, e.sessionID, e.world.Turn, a.Name(), a.Dirty().String()))
}

// MarkDirty queues derived views for the next RecomputeNow.
func (e *Engine) MarkDirty(d command.Dirty) { e.log.MarkDirty(d) }

// RecomputeNow rebuilds whatever the pending dirty flags name and returns
// them. Territorial waters follow terrain and ownership, fog follows
// everything a unit or owner can see from.
func (e *Engine) RecomputeNow() command.Dirty {
	d := e.log.TakeDirty()
	if d == command.DirtyNone {
		return d
	}
	if d.Has(command.DirtyTerrain | command.DirtyTerritory) {
		if n := territory.UpdateTerritorialWaters(e.world); n > 0 {
			e.logger.Debug().Int("tiles", n).Msg("Territorial waters updated")
		}
	}
	e.territory.Invalidate()
	if d.Has(command.DirtyFog | command.DirtyTerritory | command.DirtyTerrain) {
		e.updateFogOfWar()
	}
	return d
}

func (e *Engine) unit(id string) (*core.Unit, error) {
	if u := e.world.UnitByID(id); u != nil {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnknownUnit, id)
}

// SubmitOrder appends an order to the end of the unit's chain. Nothing can
// follow an action, so a chain ending in one rejects every new order.
func (e *Engine) SubmitOrder(unitID string, kind core.OrderKind, to core.Coordinate) (*core.Arrow, error) {
	if err := e.guardEdits(); err != nil {
		return nil, err
	}
	u, err := e.unit(unitID)
	if err != nil {
		return nil, err
	}

	chain := e.planner.Chain(u)
	from := rules.ChainEnd(u, chain)
	if err := e.checkOrder(u, chain, kind, from, to); err != nil {
		return nil, e.reject(u, kind, from, to, err)
	}

	a := core.NewUnitArrow(u, from, to, kind)
	create := command.NewCreate(a)
	e.log.Do(e.world, create)
	e.publishAction(events.TypeActionExecuted, create)
	e.RecomputeNow()
	e.logger.Debug().
		Str("unit", u.ID).
		Str("order", kind.String()).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Order accepted")
	return a, nil
}

func (e *Engine) checkOrder(u *core.Unit, chain []*core.Arrow, kind core.OrderKind, from, to core.Coordinate) error {
	if len(chain) > 0 && !chain[len(chain)-1].Order.Moves() {
		return fmt.Errorf("%w: chain already ends with %s", core.ErrOutOfReach, chain[len(chain)-1].Order)
	}
	switch kind {
	case core.OrderMove:
		if !e.planner.ReachableFrom(u, from, e.planner.Budget(u, chain)).Contains(to) {
			return core.ErrOutOfReach
		}
	case core.OrderLoadUnload:
		if e.planner.ChainCost(u, chain)+e.planner.LoadUnloadCost(u, to) > e.planner.Speed(u) {
			return core.ErrOverBudget
		}
		for _, c := range e.legal.For(u) {
			if c.Kind == kind && c.To == to {
				return nil
			}
		}
		return core.ErrCannotCarry
	case core.OrderAttack, core.OrderSupportAttack, core.OrderSupportDefense, core.OrderSuppressiveFire:
		return e.planner.ValidateTarget(u, to, kind, from)
	default:
		return core.ErrUnknownOrderKind
	}
	return nil
}

func (e *Engine) reject(u *core.Unit, kind core.OrderKind, from, to core.Coordinate, err error) error {
	err = core.WrapOrderError(u.ID, kind, from, to, err)
	e.logger.Debug().Err(err).Msg("Order rejected")
	e.eventBus.Publish(events.NewOrderRejectedEvent(e.sessionID, e.world.Turn, u.ID, kind, from, to, err))
	return err
}

// RemoveChain deletes every order the unit has queued as one undoable step.
func (e *Engine) RemoveChain(unitID string) error {
	if err := e.guardEdits(); err != nil {
		return err
	}
	u, err := e.unit(unitID)
	if err != nil {
		return err
	}
	comp := e.clearChain(u)
	if comp.Len() == 0 {
		return nil
	}
	e.log.Do(e.world, comp)
	e.publishAction(events.TypeActionExecuted, comp)
	e.RecomputeNow()
	return nil
}

func (e *Engine) clearChain(u *core.Unit) *command.Composite {
	comp := command.NewComposite("clear orders")
	doomed := e.planner.Chain(u)
	for _, a := range e.world.Arrows {
		if a.Scope == core.ScopeUnit && a.UnitID == u.ID && !slices.Contains(doomed, a) {
			doomed = append(doomed, a)
		}
	}
	for _, a := range doomed {
		comp.Add(command.NewDestroy(a))
	}
	return comp
}

// PlanActionOrder walks the unit to the cheapest cell it can reach from
// which target lies inside its action template, then aims kind at target.
// With extend the walk continues the existing chain, otherwise the chain is
// replaced. An attack on a unit an ally already attacks becomes support
// when the unit has support to give.
func (e *Engine) PlanActionOrder(unitID, targetID string, kind core.OrderKind, extend bool) (*core.Arrow, error) {
	if err := e.guardEdits(); err != nil {
		return nil, err
	}
	u, err := e.unit(unitID)
	if err != nil {
		return nil, err
	}
	target, err := e.unit(targetID)
	if err != nil {
		return nil, err
	}
	if !kind.IsStrike() && !kind.IsSupport() {
		return nil, fmt.Errorf("%w: %s cannot be aimed at a unit", core.ErrUnknownOrderKind, kind)
	}
	if kind == core.OrderAttack && e.alliedAttackOn(u, target.Pos) && e.hasSupport(u) {
		kind = core.OrderSupportAttack
	}

	var chain []*core.Arrow
	if extend {
		chain = e.planner.Chain(u)
		if len(chain) > 0 && !chain[len(chain)-1].Order.Moves() {
			return nil, e.reject(u, kind, rules.ChainEnd(u, chain), target.Pos,
				fmt.Errorf("%w: chain already ends with an action", core.ErrOutOfReach))
		}
	}
	origin := rules.ChainEnd(u, chain)

	stand, ok := e.bestFiringCell(u, chain, origin, target.Pos, kind)
	if !ok {
		return nil, e.reject(u, kind, origin, target.Pos, core.ErrOutOfReach)
	}

	comp := command.NewComposite("plan " + kind.String())
	if !extend {
		for _, a := range e.clearChain(u).Actions {
			comp.Add(a)
		}
	}
	if stand != origin {
		comp.Add(command.NewCreate(core.NewUnitArrow(u, origin, stand, core.OrderMove)))
	}
	order := core.NewUnitArrow(u, stand, target.Pos, kind)
	comp.Add(command.NewCreate(order))

	e.log.Do(e.world, comp)
	e.publishAction(events.TypeActionExecuted, comp)
	e.RecomputeNow()
	return order, nil
}

// bestFiringCell picks the cheapest cell reachable from origin (origin
// included) that is free for u and puts target inside its action zone.
// Ties go to the cell nearest the target, then row-major order.
func (e *Engine) bestFiringCell(u *core.Unit, chain []*core.Arrow, origin, target core.Coordinate, kind core.OrderKind) (core.Coordinate, bool) {
	taken := e.pendingDestinations(u)
	reach := e.planner.ReachableFrom(u, origin, e.planner.Budget(u, chain))
	candidates := append([]core.Coordinate{origin}, reach.Tiles()...)

	best, bestCost, bestDist := core.Coordinate{}, math.MaxInt, math.MaxInt
	found := false
	for _, c := range candidates {
		if c != origin {
			if other := e.world.SurfaceUnitAt(c); other != nil && other != u {
				continue
			}
			if taken[c] && !u.IsAir() {
				continue
			}
		}
		if e.planner.ValidateTarget(u, target, kind, c) != nil {
			continue
		}
		cost := reach.Cost[c]
		dist := c.DistanceTo(target)
		if cost < bestCost || (cost == bestCost && dist < bestDist) {
			best, bestCost, bestDist, found = c, cost, dist, true
		}
	}
	return best, found
}

// pendingDestinations are the cells other units' move chains end on.
func (e *Engine) pendingDestinations(except *core.Unit) map[core.Coordinate]bool {
	out := make(map[core.Coordinate]bool)
	e.world.EachUnit(func(u *core.Unit) bool {
		if u == except || u.IsAir() {
			return true
		}
		chain := e.planner.Chain(u)
		var last *core.Arrow
		for _, a := range chain {
			if a.Order == core.OrderMove {
				last = a
			}
		}
		if last != nil {
			out[last.To] = true
		}
		return true
	})
	return out
}

func (e *Engine) hasSupport(u *core.Unit) bool {
	sup, err := e.planner.Stats(u).Support()
	return err == nil && sup.Total() > 0
}

func (e *Engine) alliedAttackOn(u *core.Unit, target core.Coordinate) bool {
	for _, a := range e.world.Arrows {
		if a.Order != core.OrderAttack || a.To != target {
			continue
		}
		owner := e.combat.OwnerOf(a)
		if owner != nil && owner != u && e.world.IsAllied(owner.Nation, u.Nation) {
			return true
		}
	}
	return false
}

// ReachableTiles lists the cells the unit can still add a move to.
func (e *Engine) ReachableTiles(unitID string) ([]core.Coordinate, error) {
	u, err := e.unit(unitID)
	if err != nil {
		return nil, err
	}
	return e.planner.Reachable(u).Tiles(), nil
}

// ShortestPath returns the cheapest walk for the unit between two cells.
func (e *Engine) ShortestPath(unitID string, from, to core.Coordinate) ([]core.Coordinate, error) {
	u, err := e.unit(unitID)
	if err != nil {
		return nil, err
	}
	path := e.planner.FindPath(u, from, to, nil)
	if path == nil {
		return nil, fmt.Errorf("%w: %s to %s", core.ErrNoPath, from, to)
	}
	return path, nil
}

// ChainForUnit returns the unit's reconstructed order chain. A looping chain
// is truncated to its finite prefix.
func (e *Engine) ChainForUnit(unitID string) ([]*core.Arrow, error) {
	u, err := e.unit(unitID)
	if err != nil {
		return nil, err
	}
	return e.planner.Chain(u), nil
}

func (e *Engine) ChainCost(unitID string) (float64, error) {
	u, err := e.unit(unitID)
	if err != nil {
		return 0, err
	}
	return e.planner.ChainCost(u, e.planner.Chain(u)), nil
}

func (e *Engine) ProjectedPosition(unitID string) (core.Coordinate, error) {
	u, err := e.unit(unitID)
	if err != nil {
		return core.Coordinate{}, err
	}
	return e.planner.ProjectedPosition(u), nil
}

// PredictCombat estimates the exchange if attacker struck defender now.
func (e *Engine) PredictCombat(attackerID, defenderID string) (combat.Prediction, error) {
	attacker, err := e.unit(attackerID)
	if err != nil {
		return combat.Prediction{}, err
	}
	defender, err := e.unit(defenderID)
	if err != nil {
		return combat.Prediction{}, err
	}
	return e.combat.Predict(attacker, defender), nil
}

func (e *Engine) IsSuppressed(unitID string) (bool, error) {
	u, err := e.unit(unitID)
	if err != nil {
		return false, err
	}
	return e.combat.IsSuppressed(u), nil
}

// IsValidActionTarget reports whether the unit, standing at from, could aim
// kind at target.
func (e *Engine) IsValidActionTarget(unitID string, target core.Coordinate, kind core.OrderKind, from core.Coordinate) (bool, error) {
	u, err := e.unit(unitID)
	if err != nil {
		return false, err
	}
	return rules.IsValidActionTarget(u, target, kind, from), nil
}

// InvalidArrows maps arrow ids to the reason each one would fail.
func (e *Engine) InvalidArrows() map[string]error { return e.validator.InvalidArrows() }

func (e *Engine) LegalOrders(unitID string) ([]rules.Candidate, error) {
	u, err := e.unit(unitID)
	if err != nil {
		return nil, err
	}
	return e.legal.For(u), nil
}

// CommenceAllMoves resolves every queued move as one undoable step.
func (e *Engine) CommenceAllMoves(ctx context.Context) (processor.Outcome, error) {
	return e.turnProcessor.ProcessTurn(ctx)
}

// NextTurn advances the turn counter and wakes skipped units. The status
// reset is bookkeeping and is not recorded in the undo log.
func (e *Engine) NextTurn() error {
	if err := e.guardEdits(); err != nil {
		return err
	}
	previous := e.world.Turn
	e.world.Turn++
	reactivated := 0
	e.world.EachUnit(func(u *core.Unit) bool {
		if u.Status == core.StatusSkipped {
			u.Status = core.StatusActive
			reactivated++
		}
		return true
	})
	e.stateMachine.Context().Turn = e.world.Turn

	e.logger.Info().
		Int("turn", e.world.Turn).
		Int("reactivated", reactivated).
		Msg("Advanced turn")
	e.eventBus.Publish(events.NewTurnAdvancedEvent(e.sessionID, e.world.Turn, previous, reactivated))
	return nil
}
