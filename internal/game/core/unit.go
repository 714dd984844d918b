package core

// UnitClass decides which terrain a unit may enter.
type UnitClass string

const (
	ClassLand  UnitClass = "land"
	ClassNaval UnitClass = "naval"
	ClassAir   UnitClass = "air"
)

// UnitStatus is the player-facing readiness flag of a unit.
type UnitStatus string

const (
	StatusActive    UnitStatus = "active"
	StatusSkipped   UnitStatus = "skipped"
	StatusFortified UnitStatus = "fortified"
	StatusSentry    UnitStatus = "sentry"
)

// DefaultLoadCost is charged for a LoadUnload step when the transporter type
// does not declare its own cost.
const DefaultLoadCost = 1.0

// UnitType is a catalog entry shared by every unit of that type.
type UnitType struct {
	Key            string
	Name           string
	Class          UnitClass
	Weight         float64
	WeightCapacity float64
	MaxUnits       int
	LoadCost       *float64
	Stats          StatBlock
	Template       Template
}

// LoadCostOr returns the declared load cost, or def.
func (t *UnitType) LoadCostOr(def float64) float64 {
	if t == nil || t.LoadCost == nil {
		return def
	}
	return *t.LoadCost
}

type Unit struct {
	ID        string
	Type      *UnitType
	Pos       Coordinate
	Nation    NationID
	Rotation  int
	Status    UnitStatus
	Upgrading bool
	Cargo     []*Unit // FIFO: the first loaded unit unloads first
}

// NewUnit creates an active unit with a fresh id.
func NewUnit(t *UnitType, pos Coordinate, nation NationID) *Unit {
	return &Unit{
		ID:     newID(),
		Type:   t,
		Pos:    pos,
		Nation: nation,
		Status: StatusActive,
	}
}

func (u *Unit) EntityID() string             { return u.ID }
func (u *Unit) Kind() EntityKind             { return KindUnit }
func (u *Unit) Position() Coordinate         { return u.Pos }
func (u *Unit) SetPosition(c Coordinate)     { u.Pos = c }
func (u *Unit) sealed()                      {}
func (u *Unit) Key() string                  { return u.Type.Key }
func (u *Unit) Class() UnitClass             { return u.Type.Class }
func (u *Unit) IsAir() bool                  { return u.Type.Class == ClassAir }
func (u *Unit) IsTransport() bool            { return u.Type.WeightCapacity > 0 }
func (u *Unit) HasCargo() bool               { return len(u.Cargo) > 0 }

// Template is the unit's action grid rotated to its current facing.
func (u *Unit) Template() Template {
	return u.Type.Template.Rotated(u.Rotation)
}

// CargoWeight is the summed weight of every carried unit.
func (u *Unit) CargoWeight() float64 {
	total := 0.0
	for _, c := range u.Cargo {
		total += c.Type.Weight
	}
	return total
}

// CanCarry reports whether other fits into this unit's hold. Transporters are
// never carried themselves.
func (u *Unit) CanCarry(other *Unit) bool {
	if u == other || !u.IsTransport() || other.Type.Weight <= 0 || other.IsTransport() {
		return false
	}
	if u.Type.MaxUnits > 0 && len(u.Cargo) >= u.Type.MaxUnits {
		return false
	}
	return u.CargoWeight()+other.Type.Weight <= u.Type.WeightCapacity
}

// CargoIndex returns the index of other in the hold, or -1.
func (u *Unit) CargoIndex(other *Unit) int {
	for i, c := range u.Cargo {
		if c == other {
			return i
		}
	}
	return -1
}

// CanEnter reports whether the unit class may stand on the terrain. Canals
// accept everyone; air ignores terrain.
func (c UnitClass) CanEnter(t Terrain) bool {
	switch {
	case c == ClassAir, t == TerrainCanal:
		return true
	case c == ClassNaval:
		return t.IsNaval()
	default:
		return !t.IsNaval()
	}
}
