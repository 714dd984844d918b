package command

import (
	"slices"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// MoveOrCarry relocates an entity and, for units, moves it between the
// top-level layer and transporter holds. A nil carrier means the map itself.
type MoveOrCarry struct {
	Entity      core.Placeable
	From, To    core.Coordinate
	FromCarrier *core.Unit
	ToCarrier   *core.Unit

	srcIndex int
	dstIndex int
}

// NewMove relocates e on the map without touching containers.
func NewMove(e core.Placeable, to core.Coordinate) *MoveOrCarry {
	return &MoveOrCarry{Entity: e, From: e.Position(), To: to}
}

// NewCarry moves u between containers.
func NewCarry(u *core.Unit, from, to core.Coordinate, fromCarrier, toCarrier *core.Unit) *MoveOrCarry {
	return &MoveOrCarry{Entity: u, From: from, To: to, FromCarrier: fromCarrier, ToCarrier: toCarrier}
}

func (m *MoveOrCarry) Execute(w *core.World) {
	m.Entity.SetPosition(m.To)
	u, ok := m.Entity.(*core.Unit)
	if !ok || m.FromCarrier == m.ToCarrier {
		return
	}
	src := holder(w, m.FromCarrier)
	m.srcIndex = slices.Index(*src, u)
	if m.srcIndex >= 0 {
		*src = slices.Delete(*src, m.srcIndex, m.srcIndex+1)
	}
	dst := holder(w, m.ToCarrier)
	*dst = append(*dst, u)
	m.dstIndex = len(*dst) - 1
}

func (m *MoveOrCarry) Undo(w *core.World) {
	m.Entity.SetPosition(m.From)
	u, ok := m.Entity.(*core.Unit)
	if !ok || m.FromCarrier == m.ToCarrier {
		return
	}
	dst := holder(w, m.ToCarrier)
	if i := slices.Index(*dst, u); i >= 0 {
		*dst = slices.Delete(*dst, i, i+1)
	}
	if m.srcIndex < 0 {
		return
	}
	src := holder(w, m.FromCarrier)
	if m.srcIndex > len(*src) {
		*src = append(*src, u)
		return
	}
	*src = slices.Insert(*src, m.srcIndex, u)
}

func (m *MoveOrCarry) Name() string {
	switch {
	case m.ToCarrier != nil && m.FromCarrier != m.ToCarrier:
		return "load"
	case m.FromCarrier != nil && m.ToCarrier == nil:
		return "unload"
	default:
		return "move"
	}
}

func (m *MoveOrCarry) Dirty() Dirty {
	if m.Entity.Kind() == core.KindUnit {
		return DirtyFog | DirtyOrders | DirtyTerritory
	}
	return DirtyTerritory | DirtyFog
}

func holder(w *core.World, carrier *core.Unit) *[]*core.Unit {
	if carrier == nil {
		return &w.Units
	}
	return &carrier.Cargo
}
