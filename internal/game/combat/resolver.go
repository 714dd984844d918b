// Package combat computes attack and defense power from the queued orders.
// It predicts outcomes; it never mutates the world.
package combat

import (
	"fmt"
	"math"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/rules"
)

// Power is a strength part plus a support part.
type Power struct {
	Strength int
	Support  int
}

func (p Power) Total() int { return p.Strength + p.Support }

// Prediction is the expected outcome of an attack on one defender.
type Prediction struct {
	Attack        Power
	Defense       Power
	AttackerArmor int
	DefenderArmor int
	Participants  []*core.Unit
}

// AttackFinal is the attack total after the defender's armor.
func (p Prediction) AttackFinal() int { return max(0, p.Attack.Total()-p.DefenderArmor) }

// DefenseFinal is the defense total after the attacker's armor.
func (p Prediction) DefenseFinal() int { return max(0, p.Defense.Total()-p.AttackerArmor) }

func (p Prediction) AttackSummary() string {
	return fmt.Sprintf("%d - %d = %d", p.Attack.Total(), p.DefenderArmor, p.AttackFinal())
}

func (p Prediction) DefenseSummary() string {
	return fmt.Sprintf("%d - %d = %d", p.Defense.Total(), p.AttackerArmor, p.DefenseFinal())
}

// Resolver evaluates combat power for the world its planner is bound to.
type Resolver struct {
	planner *rules.Planner
}

func NewResolver(p *rules.Planner) *Resolver {
	return &Resolver{planner: p}
}

func (r *Resolver) world() *core.World { return r.planner.World() }

// OwnerOf returns the unit an arrow belongs to: the scoped unit, or for
// nation-scoped arrows the nation's unit standing at the arrow start.
func (r *Resolver) OwnerOf(a *core.Arrow) *core.Unit {
	w := r.world()
	if a.Scope == core.ScopeUnit {
		return w.UnitByID(a.UnitID)
	}
	for _, u := range w.UnitsAt(a.From) {
		if u.Nation == a.Nation {
			return u
		}
	}
	return nil
}

// ContributedSupport is what u adds through one arrow of kind. The declared
// support total is split evenly over u's arrows of that kind; issuing more
// arrows than the support stat allows targets forfeits everything.
func (r *Resolver) ContributedSupport(u *core.Unit, kind core.OrderKind) float64 {
	from := r.planner.ProjectedPosition(u)
	n := 0
	for _, a := range r.planner.OwnedArrows(u) {
		if a.Order == kind && a.From == from {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	sup, err := r.planner.Stats(u).Support()
	if err != nil {
		return 0
	}
	return sup.Share(n)
}

// DefensePower is the defender's strength plus the defense support allied
// units direct at its cell.
func (r *Resolver) DefensePower(defender *core.Unit) Power {
	w := r.world()
	support := 0.0
	for _, a := range w.Arrows {
		if a.Order != core.OrderSupportDefense || a.To != defender.Pos {
			continue
		}
		supporter := r.OwnerOf(a)
		if supporter == nil || supporter == defender || !w.IsAllied(defender.Nation, supporter.Nation) {
			continue
		}
		support += r.ContributedSupport(supporter, core.OrderSupportDefense)
	}
	return Power{
		Strength: r.planner.Stats(defender).Int(core.StatStrength),
		Support:  int(math.RoundToEven(support)),
	}
}

// AttackPower combines the strongest participant's full strength with split
// support from everyone else, each according to the strike kind of its arrow
// onto target.
func (r *Resolver) AttackPower(participants []*core.Unit, target core.Coordinate) Power {
	if len(participants) == 0 {
		return Power{}
	}
	primary := participants[0]
	best := r.planner.Stats(primary).Int(core.StatStrength)
	for _, u := range participants[1:] {
		if s := r.planner.Stats(u).Int(core.StatStrength); s > best {
			primary, best = u, s
		}
	}

	support := 0.0
	for _, u := range participants {
		if u == primary {
			continue
		}
		if kind, ok := r.strikeKind(u, target); ok {
			support += r.ContributedSupport(u, kind)
		}
	}
	return Power{Strength: best, Support: int(math.RoundToEven(support))}
}

func (r *Resolver) strikeKind(u *core.Unit, target core.Coordinate) (core.OrderKind, bool) {
	from := r.planner.ProjectedPosition(u)
	for _, a := range r.planner.OwnedArrows(u) {
		if a.From == from && a.To == target && a.Order.IsStrike() {
			return a.Order, true
		}
	}
	return 0, false
}

// Participants returns lead followed by every unit allied to lead whose
// arrow of one of kinds ends on target, in arrow order.
func (r *Resolver) Participants(lead *core.Unit, target core.Coordinate, kinds ...core.OrderKind) []*core.Unit {
	w := r.world()
	out := []*core.Unit{lead}
	seen := map[*core.Unit]bool{lead: true}
	for _, a := range w.Arrows {
		if a.To != target || !containsKind(kinds, a.Order) {
			continue
		}
		u := r.OwnerOf(a)
		if u == nil || seen[u] || !w.IsAllied(lead.Nation, u.Nation) {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// Predict estimates the clash between attacker, with every allied strike
// already aimed at the defender, and defender. Armor is read from attacker
// and defender only.
func (r *Resolver) Predict(attacker, defender *core.Unit) Prediction {
	participants := r.Participants(attacker, defender.Pos,
		core.OrderAttack, core.OrderSupportAttack, core.OrderSuppressiveFire)
	return Prediction{
		Attack:        r.AttackPower(participants, defender.Pos),
		Defense:       r.DefensePower(defender),
		AttackerArmor: r.planner.Stats(attacker).Int(core.StatArmor),
		DefenderArmor: r.planner.Stats(defender).Int(core.StatArmor),
		Participants:  participants,
	}
}

// Suppressors returns the hostile units whose Attack or Suppressive Fire
// arrows end on the defender, in arrow order.
func (r *Resolver) Suppressors(defender *core.Unit) []*core.Unit {
	w := r.world()
	var out []*core.Unit
	seen := map[*core.Unit]bool{}
	for _, a := range w.Arrows {
		if a.To != defender.Pos || (a.Order != core.OrderAttack && a.Order != core.OrderSuppressiveFire) {
			continue
		}
		u := r.OwnerOf(a)
		if u == nil || u == defender || seen[u] || w.IsAllied(defender.Nation, u.Nation) {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// IsSuppressed reports whether the aggregate Attack and Suppressive Fire
// power on the defender reaches its raw defense power. Armor plays no part.
func (r *Resolver) IsSuppressed(defender *core.Unit) bool {
	attackers := r.Suppressors(defender)
	if len(attackers) == 0 {
		return false
	}
	return r.AttackPower(attackers, defender.Pos).Total() >= r.DefensePower(defender).Total()
}

func containsKind(kinds []core.OrderKind, k core.OrderKind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
