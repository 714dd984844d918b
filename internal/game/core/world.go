package core

import (
	"slices"
	"sort"
)

// World is the complete mutable map state: grid, entity layers, nations and
// the turn counter. Units holds only top-level units; carried units live in
// their transporter's Cargo.
type World struct {
	Board      *Board
	Units      []*Unit
	Features   []*Feature
	Arrows     []*Arrow
	Straits    []*Link
	Blockades  []*Link
	Notes      []*Note
	Nations    map[NationID]*Nation
	Alliances  map[string][]NationID
	Catalog    *Catalog
	Turn       int
	FogEnabled bool
}

// NewWorld creates an empty w×h world starting at turn 1.
func NewWorld(w, h int, catalog *Catalog) *World {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &World{
		Board:      NewBoard(w, h),
		Nations:    make(map[NationID]*Nation),
		Alliances:  make(map[string][]NationID),
		Catalog:    catalog,
		Turn:       1,
		FogEnabled: true,
	}
}

// UnitAt returns the top-level unit standing on c, or nil.
func (w *World) UnitAt(c Coordinate) *Unit {
	for _, u := range w.Units {
		if u.Pos == c {
			return u
		}
	}
	return nil
}

// UnitsAt returns every top-level unit on c. An aircraft may share its cell
// with one surface unit.
func (w *World) UnitsAt(c Coordinate) []*Unit {
	var out []*Unit
	for _, u := range w.Units {
		if u.Pos == c {
			out = append(out, u)
		}
	}
	return out
}

// SurfaceUnitAt returns the non-air top-level unit on c, or nil.
func (w *World) SurfaceUnitAt(c Coordinate) *Unit {
	for _, u := range w.Units {
		if u.Pos == c && !u.IsAir() {
			return u
		}
	}
	return nil
}

// TransportAt returns the top-level transporter on c, or nil.
func (w *World) TransportAt(c Coordinate) *Unit {
	for _, u := range w.Units {
		if u.Pos == c && u.IsTransport() {
			return u
		}
	}
	return nil
}

// CarrierFor returns an allied top-level unit on c with room for u, or nil.
func (w *World) CarrierFor(u *Unit, c Coordinate) *Unit {
	for _, t := range w.Units {
		if t.Pos == c && t != u && w.IsAllied(u.Nation, t.Nation) && t.CanCarry(u) {
			return t
		}
	}
	return nil
}

// UnitByID finds a unit anywhere, including inside transporters.
func (w *World) UnitByID(id string) *Unit {
	var found *Unit
	w.EachUnit(func(u *Unit) bool {
		if u.ID == id {
			found = u
			return false
		}
		return true
	})
	return found
}

// EachUnit visits every unit depth-first, carried units after their carrier.
// Returning false stops the walk.
func (w *World) EachUnit(fn func(*Unit) bool) {
	var walk func([]*Unit) bool
	walk = func(units []*Unit) bool {
		for _, u := range units {
			if !fn(u) || !walk(u.Cargo) {
				return false
			}
		}
		return true
	}
	walk(w.Units)
}

// CarrierOf returns the transporter holding u, or nil when u is top-level.
func (w *World) CarrierOf(u *Unit) *Unit {
	var carrier *Unit
	w.EachUnit(func(c *Unit) bool {
		if c.CargoIndex(u) >= 0 {
			carrier = c
			return false
		}
		return true
	})
	return carrier
}

// FeatureAt returns the feature on c, or nil.
func (w *World) FeatureAt(c Coordinate) *Feature {
	for _, f := range w.Features {
		if f.Pos == c {
			return f
		}
	}
	return nil
}

// ArrowByID returns the arrow with the id, or nil.
func (w *World) ArrowByID(id string) *Arrow {
	for _, a := range w.Arrows {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// ArrowsFrom returns the arrows starting at c.
func (w *World) ArrowsFrom(c Coordinate) []*Arrow {
	var out []*Arrow
	for _, a := range w.Arrows {
		if a.From == c {
			out = append(out, a)
		}
	}
	return out
}

// Allies returns the members of the first alliance (by name) containing the
// nation, or just the nation itself. The empty nation has no allies.
func (w *World) Allies(n NationID) []NationID {
	if n == "" {
		return nil
	}
	names := make([]string, 0, len(w.Alliances))
	for name := range w.Alliances {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		members := w.Alliances[name]
		if slices.Contains(members, n) {
			return slices.Clone(members)
		}
	}
	return []NationID{n}
}

// IsAllied reports whether b is an ally of a. A nation is its own ally.
func (w *World) IsAllied(a, b NationID) bool {
	if a == "" || b == "" {
		return false
	}
	return slices.Contains(w.Allies(a), b)
}

// NationIDs returns the nation ids sorted.
func (w *World) NationIDs() []NationID {
	ids := make([]NationID, 0, len(w.Nations))
	for id := range w.Nations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EffectiveStats derives u's stats from its type, the feature it stands on and
// its nation's researched techs. The error slice lists skipped modifiers.
func (w *World) EffectiveStats(u *Unit) (Stats, []error) {
	in := StatInputs{
		Base:    u.Type.Stats,
		UnitKey: u.Type.Key,
		Class:   u.Type.Class,
	}
	if f := w.FeatureAt(u.Pos); f != nil {
		if ft := w.Catalog.FeatureType(f.Type); ft != nil {
			in.FeatureBonus = ft.Bonuses
		}
	}
	if n, ok := w.Nations[u.Nation]; ok {
		for _, id := range n.Techs {
			if t, ok := w.Catalog.Techs[id]; ok {
				in.Techs = append(in.Techs, t.Bonus)
			}
		}
	}
	return DeriveStats(in)
}

// HasStrait reports a strait joining a and b.
func (w *World) HasStrait(a, b Coordinate) bool {
	return hasLink(w.Straits, NewEdge(a, b))
}

// HasBlockade reports a blockade between a and b.
func (w *World) HasBlockade(a, b Coordinate) bool {
	return hasLink(w.Blockades, NewEdge(a, b))
}

// StraitPartners returns the cells joined to c by a strait.
func (w *World) StraitPartners(c Coordinate) []Coordinate {
	var out []Coordinate
	for _, l := range w.Straits {
		if o, ok := l.Edge.Other(c); ok {
			out = append(out, o)
		}
	}
	return out
}

func hasLink(links []*Link, e Edge) bool {
	for _, l := range links {
		if l.Edge == e {
			return true
		}
	}
	return false
}
