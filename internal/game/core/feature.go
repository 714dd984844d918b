package core

// Feature keys with built-in meaning.
const (
	FeatureCity        = "city"
	FeatureAbandonCity = "a_city"
	FeatureVillage     = "village"
	FeatureAbandonVil  = "a_village"
	FeatureFort        = "fort"
	FeatureQuarry      = "quarry"
	FeatureQuarryEmpty = "quarry_empty"
	FeatureOilRig      = "oil_rig"
)

// FeatureType is the catalog entry for a feature key.
type FeatureType struct {
	Key      string
	Name     string
	Naval    bool
	Bonuses  map[string]float64
	Vision   bool
	Manpower int
}

// Feature is a fixed map object such as a city or fort.
type Feature struct {
	ID   string
	Type string
	Pos  Coordinate
	Name string
}

func NewFeature(typ string, pos Coordinate) *Feature {
	return &Feature{ID: newID(), Type: typ, Pos: pos}
}

func (f *Feature) EntityID() string         { return f.ID }
func (f *Feature) Kind() EntityKind         { return KindFeature }
func (f *Feature) Position() Coordinate     { return f.Pos }
func (f *Feature) SetPosition(c Coordinate) { f.Pos = c }
func (f *Feature) sealed()                  {}

// Note is a free-text map annotation.
type Note struct {
	ID        string
	Pos       Coordinate
	Text      string
	Color     string
	FontSize  int
	Author    NationID
	Public    bool
	Important bool
}

func NewNote(pos Coordinate, text string, author NationID) *Note {
	return &Note{ID: newID(), Pos: pos, Text: text, Author: author, Public: true, FontSize: 14}
}

func (n *Note) EntityID() string         { return n.ID }
func (n *Note) Kind() EntityKind         { return KindNote }
func (n *Note) Position() Coordinate     { return n.Pos }
func (n *Note) SetPosition(c Coordinate) { n.Pos = c }
func (n *Note) sealed()                  {}

// Link is a strait or blockade between two cells.
type Link struct {
	ID       string
	Blockade bool
	Edge     Edge
}

func NewStrait(a, b Coordinate) *Link {
	return &Link{ID: newID(), Edge: NewEdge(a, b)}
}

func NewBlockade(a, b Coordinate) *Link {
	return &Link{ID: newID(), Blockade: true, Edge: NewEdge(a, b)}
}

func (l *Link) EntityID() string { return l.ID }
func (l *Link) sealed()          {}

func (l *Link) Kind() EntityKind {
	if l.Blockade {
		return KindBlockade
	}
	return KindStrait
}
