package game

import (
	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/territory"
)

// This file contains the nation statistics views of the game engine. The
// heavy lifting lives in the territory cache, which is invalidated on every
// recompute.

// Leaderboard returns one row per nation, sorted by nation id.
func (e *Engine) Leaderboard() []territory.Standing { return e.territory.Leaderboard() }

// Regions returns the labelled territory regions per nation.
func (e *Engine) Regions() map[core.NationID][]territory.Region { return e.territory.Regions() }

// TotalManpower is the manpower every owned feature on the map provides.
func (e *Engine) TotalManpower() int { return e.territory.TotalManpower() }

// IdleUnits lists the nation's active top-level units with nothing queued.
func (e *Engine) IdleUnits(nation core.NationID) []*core.Unit {
	var out []*core.Unit
	for _, u := range e.world.Units {
		if u.Nation != nation || u.Status != core.StatusActive {
			continue
		}
		if len(e.planner.Chain(u)) == 0 {
			out = append(out, u)
		}
	}
	return out
}

// UnitCounts counts every unit per nation, carried ones included.
func (e *Engine) UnitCounts() map[core.NationID]int {
	counts := make(map[core.NationID]int, len(e.world.Nations))
	e.world.EachUnit(func(u *core.Unit) bool {
		counts[u.Nation]++
		return true
	})
	return counts
}
