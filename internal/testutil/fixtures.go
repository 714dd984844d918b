package testutil

import (
	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// PlusTemplate moves and attacks on the four orthogonal neighbours and can
// support one cell further out.
var PlusTemplate = core.Template{
	{0, 0, 4, 0, 0},
	{0, 0, 3, 0, 0},
	{4, 3, 9, 3, 4},
	{0, 0, 3, 0, 0},
	{0, 0, 4, 0, 0},
}

// RingTemplate supports every cell of the inner ring and moves orthogonally.
var RingTemplate = core.Template{
	{0, 0, 0, 0, 0},
	{0, 2, 1, 2, 0},
	{0, 1, 9, 1, 0},
	{0, 2, 1, 2, 0},
	{0, 0, 0, 0, 0},
}

func cost(v float64) *float64 { return &v }

// Catalog returns a small catalog covering every unit class:
//
//	infantry   land  str 2 arm 0 sup 1x2 spe 3 weight 1
//	tank       land  str 5 arm 1 sup 0   spe 2 weight 4
//	artillery  land  str 1 arm 0 sup 2x3 spe 1 weight 2
//	truck      land  cap 4 / 3 units, load cost 0.5
//	ship       naval cap 8 / 4 units, load cost 1
//	plane      air   str 3 spe 4
func Catalog() *core.Catalog {
	c := core.NewCatalog()
	add := func(t *core.UnitType) { c.UnitTypes[t.Key] = t }
	add(&core.UnitType{Key: "infantry", Name: "Infantry", Class: core.ClassLand, Weight: 1,
		Stats:    core.StatBlock{"str": "2", "arm": "0", "sup": "1x2", "spe": "3", "cost": "1"},
		Template: PlusTemplate})
	add(&core.UnitType{Key: "tank", Name: "Tank", Class: core.ClassLand, Weight: 4,
		Stats:    core.StatBlock{"str": "5", "arm": "1", "sup": "0", "spe": "2", "cost": "4"},
		Template: PlusTemplate})
	add(&core.UnitType{Key: "artillery", Name: "Artillery", Class: core.ClassLand, Weight: 2,
		Stats:    core.StatBlock{"str": "1", "arm": "0", "sup": "2x3", "spe": "1", "cost": "3"},
		Template: RingTemplate})
	add(&core.UnitType{Key: "truck", Name: "Truck", Class: core.ClassLand, WeightCapacity: 4, MaxUnits: 3,
		LoadCost: cost(0.5),
		Stats:    core.StatBlock{"str": "0", "arm": "0", "sup": "0", "spe": "3", "cost": "1"},
		Template: PlusTemplate})
	add(&core.UnitType{Key: "ship", Name: "Ship", Class: core.ClassNaval, WeightCapacity: 8, MaxUnits: 4,
		LoadCost: cost(1),
		Stats:    core.StatBlock{"str": "2", "arm": "1", "sup": "0", "spe": "4", "cost": "3"},
		Template: PlusTemplate})
	add(&core.UnitType{Key: "plane", Name: "Plane", Class: core.ClassAir,
		Stats:    core.StatBlock{"str": "3", "arm": "0", "sup": "0", "spe": "4", "cost": "5"},
		Template: PlusTemplate})

	c.FeatureTypes[core.FeatureCity] = &core.FeatureType{Key: core.FeatureCity, Name: "City",
		Bonuses: map[string]float64{}, Vision: true, Manpower: 2}
	c.FeatureTypes[core.FeatureFort] = &core.FeatureType{Key: core.FeatureFort, Name: "Fort",
		Bonuses: map[string]float64{"arm": 1}, Vision: true}
	c.FeatureTypes[core.FeatureOilRig] = &core.FeatureType{Key: core.FeatureOilRig, Name: "Oil Rig",
		Naval: true, Manpower: 1}
	c.Techs["drill"] = &core.Tech{ID: "drill", Name: "Drill",
		Bonus: core.TechBonus{UnitKeys: []string{"infantry"}, Modifiers: map[string]string{"str": "+1"}}}
	return c
}

// NewWorld creates a fully visible plains world with nations "red" and
// "blue" and the test catalog.
func NewWorld(w, h int) *core.World {
	world := core.NewWorld(w, h, Catalog())
	for _, id := range []core.NationID{"red", "blue"} {
		world.Nations[id] = &core.Nation{ID: id, Name: string(id)}
	}
	for i := range world.Board.T {
		world.Board.T[i].Visibility = core.Visible
	}
	return world
}

// SetTerrain paints terrain on cells directly.
func SetTerrain(w *core.World, t core.Terrain, cells ...core.Coordinate) {
	for _, c := range cells {
		if tile := w.Board.At(c); tile != nil {
			tile.Terrain = t
		}
	}
}

// FillTerrain paints the inclusive rectangle [from, to].
func FillTerrain(w *core.World, t core.Terrain, from, to core.Coordinate) {
	for y := from.Y; y <= to.Y; y++ {
		for x := from.X; x <= to.X; x++ {
			SetTerrain(w, t, core.Coordinate{X: x, Y: y})
		}
	}
}

// AddUnit places a unit of the given catalog type.
func AddUnit(w *core.World, key string, at core.Coordinate, nation core.NationID) *core.Unit {
	t, err := w.Catalog.UnitType(key)
	if err != nil {
		panic(err)
	}
	u := core.NewUnit(t, at, nation)
	w.AddEntity(u)
	return u
}

// Load puts cargo inside carrier directly.
func Load(carrier *core.Unit, cargo ...*core.Unit) {
	for _, c := range cargo {
		c.Pos = carrier.Pos
		carrier.Cargo = append(carrier.Cargo, c)
	}
}

// NewCargo creates a unit that is not placed on the map, for loading.
func NewCargo(w *core.World, key string, nation core.NationID) *core.Unit {
	t, err := w.Catalog.UnitType(key)
	if err != nil {
		panic(err)
	}
	return core.NewUnit(t, core.Coordinate{}, nation)
}

// Chain appends kind arrows for u walking through cells, starting at the end
// of u's existing chain (or its position).
func Chain(w *core.World, u *core.Unit, kind core.OrderKind, cells ...core.Coordinate) []*core.Arrow {
	var out []*core.Arrow
	from := u.Pos
	for _, a := range w.Arrows {
		if a.UnitID == u.ID && a.From == from {
			from = a.To
		}
	}
	for _, c := range cells {
		a := core.NewUnitArrow(u, from, c, kind)
		w.AddEntity(a)
		out = append(out, a)
		from = c
	}
	return out
}

// Order adds a single arrow for u from an explicit start cell.
func Order(w *core.World, u *core.Unit, kind core.OrderKind, from, to core.Coordinate) *core.Arrow {
	a := core.NewUnitArrow(u, from, to, kind)
	w.AddEntity(a)
	return a
}
