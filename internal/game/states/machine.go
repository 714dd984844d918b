package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/events"
)

// State is one engine phase with lifecycle callbacks
type State interface {
	Phase() Phase
	Enter(ctx *SessionContext) error
	Exit(ctx *SessionContext) error
	// Validate checks the context before the state is entered
	Validate(ctx *SessionContext) error
}

// Transition is one entry of the machine's history
type Transition struct {
	From      Phase
	To        Phase
	Timestamp time.Time
	Reason    string
}

// StateMachine manages phase transitions and their history
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   Phase
	states         map[Phase]State
	context        *SessionContext
	history        []Transition
	maxHistorySize int
	eventBus       events.Publisher
}

// NewStateMachine creates a machine in PhaseInitializing. eventBus may be nil.
func NewStateMachine(ctx *SessionContext, eventBus events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseInitializing,
		states:         make(map[Phase]State),
		context:        ctx,
		maxHistorySize: 256,
		eventBus:       eventBus,
	}
	sm.RegisterState(NewInitializingState())
	sm.RegisterState(NewPlanningState())
	sm.RegisterState(NewResolvingState())
	sm.RegisterState(NewEndedState())
	return sm
}

// RegisterState registers or replaces a state implementation
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.states[state.Phase()] = state
}

func (sm *StateMachine) CurrentPhase() Phase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(target Phase, reason string) error {
	sm.mu.Lock()
	previous, err := sm.transitionLocked(target, reason)
	sm.mu.Unlock()
	if err != nil {
		return err
	}

	// published outside the lock so handlers may query the machine
	if sm.eventBus != nil {
		sm.eventBus.Publish(events.NewStateTransitionEvent(
			sm.context.SessionID, sm.context.Turn, previous.String(), target.String(), reason))
	}
	return nil
}

func (sm *StateMachine) transitionLocked(target Phase, reason string) (Phase, error) {
	if !sm.currentPhase.CanTransitionTo(target) {
		return sm.currentPhase, fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, target)
	}
	targetState, ok := sm.states[target]
	if !ok {
		return sm.currentPhase, fmt.Errorf("no state implementation for phase %s", target)
	}
	if err := targetState.Validate(sm.context); err != nil {
		return sm.currentPhase, fmt.Errorf("target state validation failed: %w", err)
	}

	if current, ok := sm.states[sm.currentPhase]; ok {
		if err := current.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", target.String()).
				Msg("Error exiting state")
		}
	}

	previous := sm.currentPhase
	sm.currentPhase = target
	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previous
		return previous, fmt.Errorf("failed to enter state %s: %w", target, err)
	}

	sm.history = append(sm.history, Transition{From: previous, To: target, Timestamp: time.Now(), Reason: reason})
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}

	sm.context.Logger.Debug().
		Str("from_phase", previous.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Msg("State transition completed")
	return previous, nil
}

// History returns a copy of the transition history
func (sm *StateMachine) History() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]Transition(nil), sm.history...)
}

func (sm *StateMachine) Context() *SessionContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.context
}

func (sm *StateMachine) CanTransitionTo(target Phase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentPhase.CanTransitionTo(target)
}
