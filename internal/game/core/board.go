package core

// NationID identifies a nation. The empty string means "no nation".
type NationID string

// Visibility is the fog state of a tile for the current viewer.
type Visibility int

const (
	Visible Visibility = iota
	Remembered
	Hidden
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Remembered:
		return "remembered"
	default:
		return "hidden"
	}
}

// Tile represents a single cell on the map.
// Owner: "" means unowned.
type Tile struct {
	Terrain    Terrain
	Owner      NationID
	Visibility Visibility
}

func (t *Tile) IsOwned() bool    { return t.Owner != "" }
func (t *Tile) IsBorder() bool   { return t.Terrain == TerrainBorder }
func (t *Tile) IsNaval() bool    { return t.Terrain.IsNaval() }
func (t *Tile) IsCanal() bool    { return t.Terrain == TerrainCanal }
func (t *Tile) IsVisible() bool  { return t.Visibility == Visible }
func (t *Tile) IsHidden() bool   { return t.Visibility == Hidden }

type Board struct {
	W, H int
	T    []Tile // length = W*H (row-major)
}

func NewBoard(w, h int) *Board {
	b := &Board{W: w, H: h, T: make([]Tile, w*h)}
	for i := range b.T {
		// All tiles start as unowned plains nobody has seen
		b.T[i].Terrain = TerrainPlains
		b.T[i].Visibility = Hidden
	}
	return b
}

func (b *Board) Idx(x, y int) int      { return y*b.W + x }
func (b *Board) XY(idx int) (int, int) { return idx % b.W, idx / b.W }

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// Contains is InBounds for a Coordinate.
func (b *Board) Contains(c Coordinate) bool {
	return b.InBounds(c.X, c.Y)
}

// GetTile safely returns a tile pointer if coordinates are valid, nil otherwise
func (b *Board) GetTile(x, y int) *Tile {
	if !b.InBounds(x, y) {
		return nil
	}
	return &b.T[b.Idx(x, y)]
}

// At is GetTile for a Coordinate.
func (b *Board) At(c Coordinate) *Tile {
	return b.GetTile(c.X, c.Y)
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{W: b.W, H: b.H, T: make([]Tile, len(b.T))}
	copy(out.T, b.T)
	return out
}

// Shifted returns a copy of the board translated by (dx, dy). Cells shifted in
// from outside are fresh plains; cells shifted past the edge are dropped.
func (b *Board) Shifted(dx, dy int) *Board {
	out := NewBoard(b.W, b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			nx, ny := x+dx, y+dy
			if out.InBounds(nx, ny) {
				out.T[out.Idx(nx, ny)] = b.T[b.Idx(x, y)]
			}
		}
	}
	return out
}

// Rotated returns a copy of the board rotated clockwise by degrees (a
// multiple of 90). Width and height swap for quarter turns.
func (b *Board) Rotated(degrees int) *Board {
	deg := NormalizeRotation(degrees)
	w, h := b.W, b.H
	if deg == 90 || deg == 270 {
		w, h = b.H, b.W
	}
	out := &Board{W: w, H: h, T: make([]Tile, len(b.T))}
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			n := RotateCoordinate(Coordinate{X: x, Y: y}, deg, b.W, b.H)
			out.T[out.Idx(n.X, n.Y)] = b.T[b.Idx(x, y)]
		}
	}
	return out
}

// RotateCoordinate maps a cell of a w×h grid to its position after a
// clockwise rotation by degrees.
func RotateCoordinate(c Coordinate, degrees, w, h int) Coordinate {
	switch NormalizeRotation(degrees) {
	case 90:
		return Coordinate{X: h - 1 - c.Y, Y: c.X}
	case 180:
		return Coordinate{X: w - 1 - c.X, Y: h - 1 - c.Y}
	case 270:
		return Coordinate{X: c.Y, Y: w - 1 - c.X}
	default:
		return c
	}
}

// NormalizeRotation folds any multiple of 90 into [0, 360).
func NormalizeRotation(degrees int) int {
	d := degrees % 360
	if d < 0 {
		d += 360
	}
	return d
}
