package command

import "github.com/mitchelldurbincs/DiploStrat/internal/game/core"

// TileField selects which tile attribute a Paint touches.
type TileField int

const (
	FieldTerrain TileField = iota
	FieldOwner
	FieldVisibility
)

func (f TileField) String() string {
	switch f {
	case FieldTerrain:
		return "terrain"
	case FieldOwner:
		return "owner"
	default:
		return "visibility"
	}
}

// TileChange is one tile's before and after value. Only the painted field of
// Old and New is read.
type TileChange struct {
	At  core.Coordinate
	Old core.Tile
	New core.Tile
}

// Paint rewrites one field on a set of tiles.
type Paint struct {
	Field   TileField
	Changes []TileChange
}

// PaintTerrain builds a Paint setting terrain on cells, skipping cells that
// are off the board or already match.
func PaintTerrain(w *core.World, cells []core.Coordinate, terrain core.Terrain) *Paint {
	return buildPaint(w, FieldTerrain, cells, core.Tile{Terrain: terrain})
}

// PaintOwner builds a Paint setting the owner on cells.
func PaintOwner(w *core.World, cells []core.Coordinate, owner core.NationID) *Paint {
	return buildPaint(w, FieldOwner, cells, core.Tile{Owner: owner})
}

// PaintVisibility builds a Paint setting visibility on cells.
func PaintVisibility(w *core.World, cells []core.Coordinate, v core.Visibility) *Paint {
	return buildPaint(w, FieldVisibility, cells, core.Tile{Visibility: v})
}

func buildPaint(w *core.World, field TileField, cells []core.Coordinate, value core.Tile) *Paint {
	p := &Paint{Field: field}
	seen := make(map[core.Coordinate]bool, len(cells))
	for _, c := range cells {
		tile := w.Board.At(c)
		if tile == nil || seen[c] {
			continue
		}
		seen[c] = true
		if sameField(field, *tile, value) {
			continue
		}
		p.Changes = append(p.Changes, TileChange{At: c, Old: *tile, New: value})
	}
	return p
}

// Empty reports a paint that changes nothing.
func (p *Paint) Empty() bool { return len(p.Changes) == 0 }

func (p *Paint) Execute(w *core.World) {
	for _, ch := range p.Changes {
		if tile := w.Board.At(ch.At); tile != nil {
			copyField(p.Field, tile, ch.New)
		}
	}
}

func (p *Paint) Undo(w *core.World) {
	for i := len(p.Changes) - 1; i >= 0; i-- {
		ch := p.Changes[i]
		if tile := w.Board.At(ch.At); tile != nil {
			copyField(p.Field, tile, ch.Old)
		}
	}
}

func (p *Paint) Name() string { return "paint " + p.Field.String() }

// Dirty never requests a fog pass for a visibility paint, which would
// overwrite the painted cells. The paint lasts until the next edit that
// does recompute fog.
func (p *Paint) Dirty() Dirty {
	switch p.Field {
	case FieldTerrain:
		return DirtyTerrain | DirtyTerritory | DirtyFog | DirtyOrders
	case FieldOwner:
		return DirtyTerritory | DirtyFog
	default:
		return DirtyOrders
	}
}

func copyField(f TileField, dst *core.Tile, src core.Tile) {
	switch f {
	case FieldTerrain:
		dst.Terrain = src.Terrain
	case FieldOwner:
		dst.Owner = src.Owner
	case FieldVisibility:
		dst.Visibility = src.Visibility
	}
}

func sameField(f TileField, a, b core.Tile) bool {
	switch f {
	case FieldTerrain:
		return a.Terrain == b.Terrain
	case FieldOwner:
		return a.Owner == b.Owner
	default:
		return a.Visibility == b.Visibility
	}
}
