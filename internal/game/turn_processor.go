package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/events"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/processor"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/states"
)

// TurnProcessor handles the orchestration of a single resolution
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessTurn resolves every queued order. The world is only touched after
// the resolver has finished, through a single composite in the command log,
// so a cancelled or failed resolution leaves it unchanged.
func (tp *TurnProcessor) ProcessTurn(ctx context.Context) (processor.Outcome, error) {
	e := tp.engine
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return processor.Outcome{}, err
	}
	if err := tp.validatePhase(); err != nil {
		return processor.Outcome{}, err
	}

	turnLogger := tp.logger.With().Int("turn", e.world.Turn).Logger()
	turnLogger.Debug().Msg("Starting resolution")

	if err := e.stateMachine.TransitionTo(states.PhaseResolving, "Commence all moves"); err != nil {
		return processor.Outcome{}, err
	}
	start := time.Now()
	tp.publishTurnStarted()

	outcome, comp, err := e.resolver.CommenceAllMoves(ctx)
	if err != nil {
		turnLogger.Warn().Err(err).Msg("Resolution aborted")
		if terr := e.stateMachine.TransitionTo(states.PhasePlanning, "Resolution aborted"); terr != nil {
			turnLogger.Error().Err(terr).Msg("Failed to reopen planning")
		}
		return processor.Outcome{}, core.WrapTurnError(e.world.Turn, states.PhaseResolving.String(), err)
	}

	if comp != nil {
		e.log.Do(e.world, comp)
		e.publishAction(events.TypeActionExecuted, comp)
		tp.publishOutcome(outcome)
	}

	if err := e.stateMachine.TransitionTo(states.PhasePlanning, "Resolution complete"); err != nil {
		return outcome, err
	}
	e.RecomputeNow()
	tp.publishTurnResolved(outcome, time.Since(start))

	turnLogger.Debug().Bool("noop", outcome.NoOp()).Msg("Resolution finished")
	return outcome, nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.engine.world.Turn).
			Str("phase", phase).
			Msg("Resolution cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validatePhase ensures orders can be resolved now
func (tp *TurnProcessor) validatePhase() error {
	currentPhase := tp.engine.stateMachine.CurrentPhase()
	if currentPhase == states.PhasePlanning {
		return nil
	}
	tp.logger.Warn().
		Str("current_phase", currentPhase.String()).
		Int("turn", tp.engine.world.Turn).
		Msg("Attempted to resolve outside of planning")
	if currentPhase == states.PhaseResolving {
		return core.WrapTurnError(tp.engine.world.Turn, currentPhase.String(), core.ErrResolving)
	}
	return core.WrapTurnError(tp.engine.world.Turn, currentPhase.String(), core.ErrEditsClosed)
}

func (tp *TurnProcessor) publishTurnStarted() {
	e := tp.engine
	units := 0
	e.world.EachUnit(func(*core.Unit) bool {
		units++
		return true
	})
	e.eventBus.Publish(events.NewTurnStartedEvent(e.sessionID, e.world.Turn, len(e.world.Arrows), units))
}

// publishOutcome announces each walk and capture of an applied resolution
func (tp *TurnProcessor) publishOutcome(out processor.Outcome) {
	e := tp.engine
	for _, m := range out.Movements {
		var nation core.NationID
		if u := e.world.UnitByID(m.UnitID); u != nil {
			nation = u.Nation
		}
		e.eventBus.Publish(events.NewUnitMovedEvent(
			e.sessionID, e.world.Turn, m.UnitID, nation, m.From(), m.To(), len(m.Path)-1, m.Partial))
	}
	for _, c := range out.Captures {
		e.eventBus.Publish(events.NewTerritoryCapturedEvent(e.sessionID, e.world.Turn, c.At, c.Previous, c.Owner))
	}
}

func (tp *TurnProcessor) publishTurnResolved(out processor.Outcome, d time.Duration) {
	e := tp.engine
	e.eventBus.Publish(events.NewTurnResolvedEvent(
		e.sessionID,
		e.world.Turn,
		len(out.Movements),
		len(out.Loaded),
		len(out.Unloaded),
		len(out.Captures),
		len(out.Consumed),
		out.NoOp(),
		d,
	))
}
