package command

import "github.com/mitchelldurbincs/DiploStrat/internal/game/core"

// ShiftMap translates the whole map by (DX, DY). Tiles pushed past the edge
// are lost from the board but restored on undo.
type ShiftMap struct {
	DX, DY int
	prev   *core.Board
}

func (s *ShiftMap) Execute(w *core.World) {
	s.prev = w.Board
	w.Board = w.Board.Shifted(s.DX, s.DY)
	offset := core.Coordinate{X: s.DX, Y: s.DY}
	transformAll(w, func(c core.Coordinate) core.Coordinate { return c.Add(offset) })
}

func (s *ShiftMap) Undo(w *core.World) {
	if s.prev != nil {
		w.Board = s.prev
	}
	offset := core.Coordinate{X: s.DX, Y: s.DY}
	transformAll(w, func(c core.Coordinate) core.Coordinate { return c.Sub(offset) })
}

func (s *ShiftMap) Name() string { return "shift map" }
func (s *ShiftMap) Dirty() Dirty { return DirtyAll }

// RotateMap turns the whole map clockwise. Units keep their facing relative
// to the map, so their rotation turns with it.
type RotateMap struct {
	Degrees int
	prev    *core.Board
}

func (r *RotateMap) Execute(w *core.World) {
	r.prev = w.Board
	width, height := w.Board.W, w.Board.H
	deg := core.NormalizeRotation(r.Degrees)
	w.Board = w.Board.Rotated(deg)
	transformAll(w, func(c core.Coordinate) core.Coordinate {
		return core.RotateCoordinate(c, deg, width, height)
	})
	turnUnits(w, deg)
}

func (r *RotateMap) Undo(w *core.World) {
	if r.prev == nil {
		return
	}
	// inverse of a clockwise turn on the rotated grid
	inv := core.NormalizeRotation(-r.Degrees)
	width, height := w.Board.W, w.Board.H
	w.Board = r.prev
	transformAll(w, func(c core.Coordinate) core.Coordinate {
		return core.RotateCoordinate(c, inv, width, height)
	})
	turnUnits(w, inv)
}

func (r *RotateMap) Name() string { return "rotate map" }
func (r *RotateMap) Dirty() Dirty { return DirtyAll }

func turnUnits(w *core.World, deg int) {
	w.EachUnit(func(u *core.Unit) bool {
		u.Rotation = core.NormalizeRotation(u.Rotation + deg)
		return true
	})
}

func transformAll(w *core.World, fn func(core.Coordinate) core.Coordinate) {
	w.EachUnit(func(u *core.Unit) bool {
		u.Pos = fn(u.Pos)
		return true
	})
	for _, f := range w.Features {
		f.Pos = fn(f.Pos)
	}
	for _, n := range w.Notes {
		n.Pos = fn(n.Pos)
	}
	for _, a := range w.Arrows {
		a.From, a.To = fn(a.From), fn(a.To)
	}
	for _, l := range w.Straits {
		l.Edge = core.NewEdge(fn(l.Edge.A), fn(l.Edge.B))
	}
	for _, l := range w.Blockades {
		l.Edge = core.NewEdge(fn(l.Edge.A), fn(l.Edge.B))
	}
}
