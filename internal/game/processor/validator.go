package processor

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/combat"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/rules"
)

// Validator flags arrows that cannot execute as queued.
type Validator struct {
	planner *rules.Planner
	combat  *combat.Resolver
	logger  zerolog.Logger
}

// NewValidator creates a validator for the planner's world
func NewValidator(p *rules.Planner, logger zerolog.Logger) *Validator {
	return &Validator{
		planner: p,
		combat:  combat.NewResolver(p),
		logger:  logger.With().Str("component", "Validator").Logger(),
	}
}

// InvalidArrows maps the id of every invalid arrow to the reason.
//
// A suppressed unit loses only the Move arrows of its chain. Otherwise a chain
// costing more than the unit's speed is invalid as a whole, and each action
// arrow must aim at a cell its template allows from the arrow start.
func (v *Validator) InvalidArrows() map[string]error {
	w := v.planner.World()
	out := make(map[string]error)
	mark := func(u *core.Unit, a *core.Arrow, err error) {
		out[a.ID] = core.WrapOrderError(u.ID, a.Order, a.From, a.To, err)
	}

	for _, u := range w.Units {
		chain := v.planner.Chain(u)
		if len(chain) == 0 {
			continue
		}

		if hasMove(chain) && v.combat.IsSuppressed(u) {
			for _, a := range chain {
				if a.Order == core.OrderMove {
					mark(u, a, core.ErrSuppressed)
				}
			}
			continue
		}

		if cost := v.planner.ChainCost(u, chain); cost > v.planner.Speed(u) {
			for _, a := range chain {
				mark(u, a, core.ErrOverBudget)
			}
			continue
		}

		for _, a := range chain {
			if a.Order.Moves() {
				continue
			}
			if !rules.IsValidActionTarget(u, a.To, a.Order, a.From) {
				mark(u, a, core.ErrTargetOutsideTemplate)
			}
		}
	}

	if len(out) > 0 {
		v.logger.Debug().Int("invalid", len(out)).Msg("Validated order chains")
	}
	return out
}

func hasMove(chain []*core.Arrow) bool {
	for _, a := range chain {
		if a.Order == core.OrderMove {
			return true
		}
	}
	return false
}
