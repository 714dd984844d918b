// Package command holds the reversible edits applied to a world and the
// undo/redo log that records them.
package command

import (
	"strings"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// Dirty flags name the derived views an action invalidates.
type Dirty uint8

const (
	DirtyTerrain Dirty = 1 << iota
	DirtyTerritory
	DirtyFog
	DirtyOrders

	DirtyNone Dirty = 0
	DirtyAll        = DirtyTerrain | DirtyTerritory | DirtyFog | DirtyOrders
)

func (d Dirty) Has(f Dirty) bool { return d&f != 0 }

func (d Dirty) String() string {
	if d == DirtyNone {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag Dirty
		name string
	}{{DirtyTerrain, "terrain"}, {DirtyTerritory, "territory"}, {DirtyFog, "fog"}, {DirtyOrders, "orders"}} {
		if d.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Action is a reversible edit. Undo must restore exactly the state Execute
// started from, provided every later action has been undone first.
type Action interface {
	Execute(w *core.World)
	Undo(w *core.World)
	Name() string
	Dirty() Dirty
}

// Composite applies its children in order and undoes them in reverse.
type Composite struct {
	Label   string
	Actions []Action
}

func NewComposite(label string, actions ...Action) *Composite {
	return &Composite{Label: label, Actions: actions}
}

// Add appends a child action.
func (c *Composite) Add(a Action) {
	c.Actions = append(c.Actions, a)
}

func (c *Composite) Len() int { return len(c.Actions) }

func (c *Composite) Execute(w *core.World) {
	for _, a := range c.Actions {
		a.Execute(w)
	}
}

func (c *Composite) Undo(w *core.World) {
	for i := len(c.Actions) - 1; i >= 0; i-- {
		c.Actions[i].Undo(w)
	}
}

func (c *Composite) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return "composite"
}

func (c *Composite) Dirty() Dirty {
	var d Dirty
	for _, a := range c.Actions {
		d |= a.Dirty()
	}
	return d
}
