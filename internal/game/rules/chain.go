package rules

import (
	"math"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// OwnedArrows returns the arrows that may form u's chain: arrows scoped to u
// when any exist, otherwise the nation-scoped arrows of u's nation.
func (p *Planner) OwnedArrows(u *core.Unit) []*core.Arrow {
	var own, legacy []*core.Arrow
	for _, a := range p.world.Arrows {
		switch {
		case a.Scope == core.ScopeUnit && a.UnitID == u.ID:
			own = append(own, a)
		case a.Scope == core.ScopeNation && a.UnitID == "" && a.Nation == u.Nation:
			legacy = append(legacy, a)
		}
	}
	if len(own) > 0 {
		return own
	}
	return legacy
}

// ChainFor reconstructs u's order chain by following start == previous end
// from u's position. When the arrows loop, the finite prefix is returned
// together with core.ErrChainCycle.
func (p *Planner) ChainFor(u *core.Unit) ([]*core.Arrow, error) {
	byStart := make(map[core.Coordinate]*core.Arrow)
	for _, a := range p.OwnedArrows(u) {
		byStart[a.From] = a
	}

	var chain []*core.Arrow
	visited := make(map[core.Coordinate]bool)
	cur := u.Pos
	for {
		a, ok := byStart[cur]
		if !ok {
			return chain, nil
		}
		if visited[cur] {
			return chain, core.ErrChainCycle
		}
		visited[cur] = true
		chain = append(chain, a)
		cur = a.To
	}
}

// Chain is ChainFor with cycles logged and absorbed.
func (p *Planner) Chain(u *core.Unit) []*core.Arrow {
	chain, err := p.ChainFor(u)
	if err != nil {
		p.logger.Warn().Err(err).Str("unit", u.ID).Int("prefix", len(chain)).Msg("Truncated order chain")
	}
	return chain
}

// ChainEnd is the cell where the chain stops, or the unit's position.
func ChainEnd(u *core.Unit, chain []*core.Arrow) core.Coordinate {
	if len(chain) == 0 {
		return u.Pos
	}
	return chain[len(chain)-1].To
}

// ChainCost sums the movement points chain consumes. A Move arrow costs its
// shortest path length; a Load/Unload arrow costs the load cost of the
// transporter involved. An unreachable Move makes the chain unaffordable.
func (p *Planner) ChainCost(u *core.Unit, chain []*core.Arrow) float64 {
	total := 0.0
	for _, a := range chain {
		switch a.Order {
		case core.OrderMove:
			path := p.FindPath(u, a.From, a.To, nil)
			if path == nil {
				p.logger.Debug().Str("unit", u.ID).Stringer("from", a.From).Stringer("to", a.To).Msg("No path for move arrow")
				return math.Inf(1)
			}
			total += float64(len(path) - 1)
		case core.OrderLoadUnload:
			total += p.LoadUnloadCost(u, a.To)
		}
	}
	return total
}

// LoadCost is the cost of boarding or leaving the transporter standing on c,
// zero when there is none.
func (p *Planner) LoadCost(c core.Coordinate) float64 {
	t := p.world.TransportAt(c)
	if t == nil {
		return 0
	}
	return t.Type.LoadCostOr(p.defaultLoadCost)
}

// LoadUnloadCost is what a Load/Unload arrow from u to c costs: boarding the
// transporter on c, or else u unloading its own cargo onto c.
func (p *Planner) LoadUnloadCost(u *core.Unit, c core.Coordinate) float64 {
	if t := p.world.TransportAt(c); t != nil && t != u {
		return t.Type.LoadCostOr(p.defaultLoadCost)
	}
	if u.IsTransport() {
		return u.Type.LoadCostOr(p.defaultLoadCost)
	}
	return 0
}

// ProjectedPosition is where u will stand after its chain executes: the end
// of the leading run of relocating orders. Actions queued after that run fire
// from this cell.
func (p *Planner) ProjectedPosition(u *core.Unit) core.Coordinate {
	pos := u.Pos
	for _, a := range p.Chain(u) {
		if !a.Order.Moves() {
			break
		}
		pos = a.To
	}
	return pos
}

// Budget is the movement left for extending u's chain.
func (p *Planner) Budget(u *core.Unit, chain []*core.Arrow) int {
	left := p.Speed(u) - p.ChainCost(u, chain)
	if math.IsInf(left, -1) || left <= 0 {
		return 0
	}
	return int(math.Floor(left))
}
