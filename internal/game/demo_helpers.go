package game

import (
	"errors"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// GenerateRandomOrders gives some idle units of the nation a random legal
// order. It is a helper for demos, testing and simple baseline agents.
// Returns the number of orders accepted.
func GenerateRandomOrders(e *Engine, nation core.NationID, rng *rand.Rand) (int, error) {
	accepted := 0
	for _, u := range e.IdleUnits(nation) {
		if rng.Float32() > 0.7 {
			continue
		}
		candidates, err := e.LegalOrders(u.ID)
		if err != nil {
			return accepted, err
		}
		if len(candidates) == 0 {
			continue
		}
		chosen := candidates[rng.Intn(len(candidates))]
		if _, err := e.SubmitOrder(u.ID, chosen.Kind, chosen.To); err != nil {
			var orderErr *core.OrderError
			if errors.As(err, &orderErr) {
				// candidates can go stale once an earlier unit has claimed a cell
				continue
			}
			return accepted, err
		}
		accepted++
		log.Debug().
			Str("nation", string(nation)).
			Str("unit", u.ID).
			Str("order", chosen.Kind.String()).
			Str("to", chosen.To.String()).
			Msg("Generated random order")
	}
	return accepted, nil
}
