package core

import "github.com/google/uuid"

// EntityKind tags the closed set of things that live on the map.
type EntityKind int

const (
	KindUnit EntityKind = iota
	KindFeature
	KindArrow
	KindStrait
	KindBlockade
	KindNote
)

func (k EntityKind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindFeature:
		return "feature"
	case KindArrow:
		return "arrow"
	case KindStrait:
		return "strait"
	case KindBlockade:
		return "blockade"
	case KindNote:
		return "note"
	default:
		return "unknown"
	}
}

// Entity is implemented only by *Unit, *Feature, *Arrow, *Link and *Note.
type Entity interface {
	EntityID() string
	Kind() EntityKind
	sealed()
}

// Placeable entities occupy a single cell.
type Placeable interface {
	Entity
	Position() Coordinate
	SetPosition(Coordinate)
}

func newID() string {
	return uuid.NewString()
}
