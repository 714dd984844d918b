package states

import (
	"errors"
	"time"
)

// InitializingState is entered while a world is built or replaced
type InitializingState struct{}

func NewInitializingState() State { return &InitializingState{} }

func (s *InitializingState) Phase() Phase { return PhaseInitializing }

func (s *InitializingState) Enter(ctx *SessionContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *SessionContext) error {
	ctx.Logger.Debug().Int("nations", ctx.Nations).Msg("World ready")
	return nil
}

func (s *InitializingState) Validate(*SessionContext) error { return nil }

// PlanningState accepts order edits
type PlanningState struct{}

func NewPlanningState() State { return &PlanningState{} }

func (s *PlanningState) Phase() Phase { return PhasePlanning }

func (s *PlanningState) Enter(ctx *SessionContext) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Planning orders")
	return nil
}

func (s *PlanningState) Exit(*SessionContext) error { return nil }

func (s *PlanningState) Validate(ctx *SessionContext) error {
	if ctx.Turn < 1 {
		return errors.New("turn counter must start at 1")
	}
	return nil
}

// ResolvingState runs a single CommenceAllMoves
type ResolvingState struct{}

func NewResolvingState() State { return &ResolvingState{} }

func (s *ResolvingState) Phase() Phase { return PhaseResolving }

func (s *ResolvingState) Enter(ctx *SessionContext) error {
	ctx.ResolveStarted = time.Now()
	return nil
}

func (s *ResolvingState) Exit(ctx *SessionContext) error {
	ctx.LastResolve = time.Since(ctx.ResolveStarted)
	ctx.Resolutions++
	ctx.Logger.Debug().
		Int("turn", ctx.Turn).
		Dur("elapsed", ctx.LastResolve).
		Msg("Resolution finished")
	return nil
}

func (s *ResolvingState) Validate(*SessionContext) error { return nil }

// EndedState is the closed session
type EndedState struct{}

func NewEndedState() State { return &EndedState{} }

func (s *EndedState) Phase() Phase { return PhaseEnded }

func (s *EndedState) Enter(ctx *SessionContext) error {
	ctx.Logger.Info().
		Int("turn", ctx.Turn).
		Int("resolutions", ctx.Resolutions).
		Msg("Session ended")
	return nil
}

func (s *EndedState) Exit(*SessionContext) error     { return nil }
func (s *EndedState) Validate(*SessionContext) error { return nil }
