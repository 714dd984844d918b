package states

import "fmt"

// Phase is the engine's position in the plan/resolve cycle
type Phase int

const (
	// PhaseInitializing - world being built or loaded
	PhaseInitializing Phase = iota

	// PhasePlanning - orders may be edited
	PhasePlanning

	// PhaseResolving - CommenceAllMoves is running, edits are refused
	PhaseResolving

	// PhaseEnded - session closed
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhasePlanning:
		return "Planning"
	case PhaseResolving:
		return "Resolving"
	case PhaseEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if no further transitions except a reset are expected
func (p Phase) IsTerminal() bool {
	return p == PhaseEnded
}

// AcceptsEdits returns true if orders and map edits may be applied in this phase
func (p Phase) AcceptsEdits() bool {
	return p == PhasePlanning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseInitializing:
		return []Phase{PhasePlanning}
	case PhasePlanning:
		return []Phase{PhaseResolving, PhaseInitializing, PhaseEnded}
	case PhaseResolving:
		return []Phase{PhasePlanning}
	case PhaseEnded:
		return []Phase{PhaseInitializing}
	default:
		return nil
	}
}

// CanTransitionTo checks if a transition from this phase to target is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a Phase
func ParsePhase(s string) (Phase, error) {
	for p := PhaseInitializing; p <= PhaseEnded; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseInitializing, fmt.Errorf("unknown phase %q", s)
}
