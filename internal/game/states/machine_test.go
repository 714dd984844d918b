package states

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/events"
)

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseInitializing, "Initializing"},
		{PhasePlanning, "Planning"},
		{PhaseResolving, "Resolving"},
		{PhaseEnded, "Ended"},
		{Phase(42), "Unknown(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestPhase_Transitions(t *testing.T) {
	tests := []struct {
		from    Phase
		allowed []Phase
	}{
		{PhaseInitializing, []Phase{PhasePlanning}},
		{PhasePlanning, []Phase{PhaseResolving, PhaseInitializing, PhaseEnded}},
		{PhaseResolving, []Phase{PhasePlanning}},
		{PhaseEnded, []Phase{PhaseInitializing}},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())
			for _, to := range tt.allowed {
				assert.True(t, tt.from.CanTransitionTo(to))
			}
		})
	}
	assert.False(t, PhaseResolving.CanTransitionTo(PhaseEnded))
	assert.True(t, PhasePlanning.AcceptsEdits())
	assert.False(t, PhaseResolving.AcceptsEdits())
	assert.True(t, PhaseEnded.IsTerminal())
}

func TestParsePhase(t *testing.T) {
	p, err := ParsePhase("Resolving")
	require.NoError(t, err)
	assert.Equal(t, PhaseResolving, p)

	_, err = ParsePhase("Lobby")
	assert.Error(t, err)
}

func newMachine(bus events.Publisher) *StateMachine {
	return NewStateMachine(NewSessionContext("s1", zerolog.Nop()), bus)
}

func TestStateMachine_Cycle(t *testing.T) {
	bus := events.NewEventBus(zerolog.Nop())
	var seen []string
	bus.SubscribeFunc(events.TypeStateTransition, func(e events.Event) {
		st := e.(*events.StateTransitionEvent)
		seen = append(seen, st.FromPhase+">"+st.ToPhase)
	})
	sm := newMachine(bus)

	require.NoError(t, sm.TransitionTo(PhasePlanning, "world loaded"))
	require.NoError(t, sm.TransitionTo(PhaseResolving, "commence"))
	require.NoError(t, sm.TransitionTo(PhasePlanning, "resolved"))

	assert.Equal(t, PhasePlanning, sm.CurrentPhase())
	assert.Equal(t, 1, sm.Context().Resolutions)
	assert.Equal(t, []string{"Initializing>Planning", "Planning>Resolving", "Resolving>Planning"}, seen)

	history := sm.History()
	require.Len(t, history, 3)
	assert.Equal(t, "commence", history[1].Reason)
}

func TestStateMachine_InvalidTransition(t *testing.T) {
	sm := newMachine(nil)

	err := sm.TransitionTo(PhaseResolving, "too early")
	assert.Error(t, err)
	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	assert.Empty(t, sm.History())
}

type failingState struct{ phase Phase }

func (f failingState) Phase() Phase                   { return f.phase }
func (f failingState) Enter(*SessionContext) error    { return errors.New("enter failed") }
func (f failingState) Exit(*SessionContext) error     { return nil }
func (f failingState) Validate(*SessionContext) error { return nil }

func TestStateMachine_EnterFailureRollsBack(t *testing.T) {
	sm := newMachine(nil)
	sm.RegisterState(failingState{phase: PhasePlanning})

	err := sm.TransitionTo(PhasePlanning, "load")
	assert.ErrorContains(t, err, "enter failed")
	assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
}

func TestStateMachine_PlanningValidatesTurn(t *testing.T) {
	sm := newMachine(nil)
	sm.Context().Turn = 0

	assert.ErrorContains(t, sm.TransitionTo(PhasePlanning, "load"), "turn counter")
}
