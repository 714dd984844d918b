package command

import "github.com/mitchelldurbincs/DiploStrat/internal/game/core"

// Create adds an entity to its layer.
type Create struct {
	Entity core.Entity
	at     core.Placement
}

func NewCreate(e core.Entity) *Create {
	return &Create{Entity: e, at: core.Append}
}

func (c *Create) Execute(w *core.World) { w.InsertEntity(c.Entity, c.at) }

func (c *Create) Undo(w *core.World) {
	if p, ok := w.RemoveEntity(c.Entity); ok {
		c.at = p
	}
}

func (c *Create) Name() string { return "create " + c.Entity.Kind().String() }
func (c *Create) Dirty() Dirty { return entityDirty(c.Entity) }

// Destroy removes an entity. Destroying a carried unit takes it out of its
// transporter; undo puts it back in the same slot.
type Destroy struct {
	Entity  core.Entity
	at      core.Placement
	removed bool
}

func NewDestroy(e core.Entity) *Destroy {
	return &Destroy{Entity: e}
}

func (d *Destroy) Execute(w *core.World) {
	d.at, d.removed = w.RemoveEntity(d.Entity)
}

func (d *Destroy) Undo(w *core.World) {
	if d.removed {
		w.InsertEntity(d.Entity, d.at)
	}
}

func (d *Destroy) Name() string { return "destroy " + d.Entity.Kind().String() }
func (d *Destroy) Dirty() Dirty { return entityDirty(d.Entity) }

func entityDirty(e core.Entity) Dirty {
	switch e.Kind() {
	case core.KindUnit:
		return DirtyFog | DirtyOrders | DirtyTerritory
	case core.KindFeature:
		return DirtyFog | DirtyTerritory | DirtyOrders
	case core.KindArrow, core.KindStrait, core.KindBlockade:
		return DirtyOrders
	default:
		return DirtyNone
	}
}
