package core

// Template cell values. The center of every template is CellCenter.
const (
	CellBlocked     = 0
	CellMove        = 1
	CellSupport     = 2
	CellAttack      = 3 // attack, support and move
	CellSupportOnly = 4
	CellCenter      = 9

	TemplateSize   = 5
	templateCenter = TemplateSize / 2
)

// Template is a unit's 5×5 action grid indexed [row][col]. The unit sits at
// [2][2]; cell [dy+2][dx+2] describes the offset (dx, dy).
type Template [TemplateSize][TemplateSize]int

// DefaultTemplate is used for unit types that do not declare a grid.
func DefaultTemplate() Template {
	var t Template
	t[templateCenter][templateCenter] = CellCenter
	return t
}

// Value returns the cell value for an offset, or CellBlocked outside the grid.
func (t Template) Value(dx, dy int) int {
	r, c := dy+templateCenter, dx+templateCenter
	if r < 0 || r >= TemplateSize || c < 0 || c >= TemplateSize {
		return CellBlocked
	}
	return t[r][c]
}

// Rotated returns the template turned clockwise by degrees.
func (t Template) Rotated(degrees int) Template {
	var out Template
	n := TemplateSize - 1
	switch NormalizeRotation(degrees) {
	case 90:
		for r := 0; r < TemplateSize; r++ {
			for c := 0; c < TemplateSize; c++ {
				out[r][c] = t[n-c][r]
			}
		}
	case 180:
		for r := 0; r < TemplateSize; r++ {
			for c := 0; c < TemplateSize; c++ {
				out[r][c] = t[n-r][n-c]
			}
		}
	case 270:
		for r := 0; r < TemplateSize; r++ {
			for c := 0; c < TemplateSize; c++ {
				out[r][c] = t[c][n-r]
			}
		}
	default:
		out = t
	}
	return out
}

// Offsets returns every non-center offset whose value is one of values, in
// row-major order.
func (t Template) Offsets(values ...int) []Coordinate {
	var out []Coordinate
	for r := 0; r < TemplateSize; r++ {
		for c := 0; c < TemplateSize; c++ {
			if r == templateCenter && c == templateCenter {
				continue
			}
			v := t[r][c]
			for _, want := range values {
				if v == want {
					out = append(out, Coordinate{X: c - templateCenter, Y: r - templateCenter})
					break
				}
			}
		}
	}
	return out
}

// MoveOffsets are the single-step movement edges of the template.
func (t Template) MoveOffsets() []Coordinate {
	return t.Offsets(CellMove, CellSupport, CellAttack)
}

// ActionOffsets are the cells the unit can see and act into.
func (t Template) ActionOffsets() []Coordinate {
	return t.Offsets(CellMove, CellSupport, CellAttack, CellSupportOnly)
}
