package rules

import "github.com/mitchelldurbincs/DiploStrat/internal/game/core"

// Candidate is an order a unit could append to its chain right now.
type Candidate struct {
	Kind core.OrderKind
	From core.Coordinate
	To   core.Coordinate
}

// LegalOrderCalculator enumerates legal chain extensions for units
type LegalOrderCalculator struct {
	planner *Planner
}

// NewLegalOrderCalculator creates a new legal order calculator
func NewLegalOrderCalculator(p *Planner) *LegalOrderCalculator {
	return &LegalOrderCalculator{planner: p}
}

// For returns every candidate order for u, starting at the end of its current
// chain: moves to reachable cells, strikes on hostile units, defense support
// for allied units, and boarding or unloading next to a transporter.
func (lc *LegalOrderCalculator) For(u *core.Unit) []Candidate {
	w := lc.planner.World()
	chain := lc.planner.Chain(u)
	origin := ChainEnd(u, chain)
	// once an action is queued the chain can no longer grow
	if len(chain) > 0 && !chain[len(chain)-1].Order.Moves() {
		return nil
	}

	var out []Candidate
	reach := lc.planner.ReachableFrom(u, origin, lc.planner.Budget(u, chain))
	for _, c := range reach.Tiles() {
		out = append(out, Candidate{Kind: core.OrderMove, From: origin, To: c})
	}

	for _, o := range u.Template().ActionOffsets() {
		target := origin.Add(o)
		allied, hostile := false, false
		for _, other := range w.UnitsAt(target) {
			if other == u {
				continue
			}
			if w.IsAllied(u.Nation, other.Nation) {
				allied = true
			} else {
				hostile = true
			}
		}
		var kinds []core.OrderKind
		if allied {
			kinds = append(kinds, core.OrderSupportDefense)
		}
		if hostile {
			kinds = append(kinds, core.OrderAttack, core.OrderSupportAttack, core.OrderSuppressiveFire)
		}
		for _, k := range kinds {
			if lc.planner.ValidateTarget(u, target, k, origin) == nil {
				out = append(out, Candidate{Kind: k, From: origin, To: target})
			}
		}
	}

	for _, o := range u.Template().MoveOffsets() {
		target := origin.Add(o)
		switch {
		case w.CarrierFor(u, target) != nil:
			out = append(out, Candidate{Kind: core.OrderLoadUnload, From: origin, To: target})
		case u.HasCargo() && w.SurfaceUnitAt(target) == nil && lc.planner.StepAllowed(u.Cargo[0], origin, target):
			out = append(out, Candidate{Kind: core.OrderLoadUnload, From: origin, To: target})
		}
	}
	return out
}
