package core

// Placement records where an entity sat inside its layer so a removal can be
// reverted in place. Carrier is set for units stored in a transporter hold.
type Placement struct {
	Index   int
	Carrier *Unit
}

// Append is the placement that adds an entity at the end of its layer.
var Append = Placement{Index: -1}

// AddEntity appends e to its layer.
func (w *World) AddEntity(e Entity) {
	w.InsertEntity(e, Append)
}

// InsertEntity puts e back into its layer at p.
func (w *World) InsertEntity(e Entity, p Placement) {
	switch v := e.(type) {
	case *Unit:
		if p.Carrier != nil {
			p.Carrier.Cargo = insertAt(p.Carrier.Cargo, p.Index, v)
			return
		}
		w.Units = insertAt(w.Units, p.Index, v)
	case *Feature:
		w.Features = insertAt(w.Features, p.Index, v)
	case *Arrow:
		w.Arrows = insertAt(w.Arrows, p.Index, v)
	case *Link:
		if v.Blockade {
			w.Blockades = insertAt(w.Blockades, p.Index, v)
		} else {
			w.Straits = insertAt(w.Straits, p.Index, v)
		}
	case *Note:
		w.Notes = insertAt(w.Notes, p.Index, v)
	}
}

// RemoveEntity deletes e from its layer. A unit is also found inside any
// transporter. ok is false when e was not present.
func (w *World) RemoveEntity(e Entity) (p Placement, ok bool) {
	switch v := e.(type) {
	case *Unit:
		if carrier := w.CarrierOf(v); carrier != nil {
			i := carrier.CargoIndex(v)
			carrier.Cargo = removeAt(carrier.Cargo, i)
			return Placement{Index: i, Carrier: carrier}, true
		}
		return removeFrom(&w.Units, v)
	case *Feature:
		return removeFrom(&w.Features, v)
	case *Arrow:
		return removeFrom(&w.Arrows, v)
	case *Link:
		if v.Blockade {
			return removeFrom(&w.Blockades, v)
		}
		return removeFrom(&w.Straits, v)
	case *Note:
		return removeFrom(&w.Notes, v)
	}
	return Placement{}, false
}

// Contains reports whether e is currently part of the world.
func (w *World) Contains(e Entity) bool {
	switch v := e.(type) {
	case *Unit:
		return w.UnitByID(v.ID) == v
	case *Feature:
		return indexOf(w.Features, v) >= 0
	case *Arrow:
		return indexOf(w.Arrows, v) >= 0
	case *Link:
		if v.Blockade {
			return indexOf(w.Blockades, v) >= 0
		}
		return indexOf(w.Straits, v) >= 0
	case *Note:
		return indexOf(w.Notes, v) >= 0
	}
	return false
}

func removeFrom[T comparable](list *[]T, v T) (Placement, bool) {
	i := indexOf(*list, v)
	if i < 0 {
		return Placement{}, false
	}
	*list = removeAt(*list, i)
	return Placement{Index: i}, true
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

func insertAt[T any](list []T, i int, v T) []T {
	if i < 0 || i >= len(list) {
		return append(list, v)
	}
	list = append(list, v)
	copy(list[i+1:], list[i:])
	list[i] = v
	return list
}

func removeAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
