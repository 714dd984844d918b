package rules

import "github.com/mitchelldurbincs/DiploStrat/internal/game/core"

// IsValidActionTarget reports whether u, acting from the cell from, may aim
// an order of kind at target. Attacks need an attack cell of the rotated
// template; support kinds accept support, attack and support-only cells.
func IsValidActionTarget(u *core.Unit, target core.Coordinate, kind core.OrderKind, from core.Coordinate) bool {
	rel := target.Sub(from)
	if rel.X < -2 || rel.X > 2 || rel.Y < -2 || rel.Y > 2 {
		return false
	}
	v := u.Template().Value(rel.X, rel.Y)
	switch kind {
	case core.OrderAttack:
		return v == core.CellAttack
	case core.OrderSupportAttack, core.OrderSupportDefense, core.OrderSuppressiveFire:
		return v == core.CellSupport || v == core.CellAttack || v == core.CellSupportOnly
	default:
		return false
	}
}

// ActionZone lists every cell u could aim kind at from the given cell.
func ActionZone(u *core.Unit, kind core.OrderKind, from core.Coordinate) []core.Coordinate {
	var out []core.Coordinate
	for _, o := range u.Template().ActionOffsets() {
		c := from.Add(o)
		if IsValidActionTarget(u, c, kind, from) {
			out = append(out, c)
		}
	}
	return out
}

// ValidateTarget is IsValidActionTarget plus the board and fog checks used
// when a player issues an order.
func (p *Planner) ValidateTarget(u *core.Unit, target core.Coordinate, kind core.OrderKind, from core.Coordinate) error {
	tile := p.world.Board.At(target)
	if tile == nil {
		return core.ErrInvalidCoordinates
	}
	if p.mode == ModePlayer && tile.IsHidden() {
		return core.ErrHiddenTile
	}
	if !IsValidActionTarget(u, target, kind, from) {
		return core.ErrTargetOutsideTemplate
	}
	return nil
}
