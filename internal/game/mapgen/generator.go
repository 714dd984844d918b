package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// NationPalette names the nations a generated map can hold, in placement
// order.
var NationPalette = []core.NationID{"red", "blue", "green", "yellow", "purple", "cyan", "orange", "white"}

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width             int
	Height            int
	Nations           int
	Border            bool    // ring the map with impassable Border tiles
	WaterRatio        float64 // share of tiles turned into water bodies
	WaterBodies       int
	NumMountainVeins  int
	MinVeinLength     int
	MaxVeinLength     int
	NumPatches        int // forest, desert, swamp and snow blotches
	FeatureRatio      int // 1 feature per N land tiles
	MinCapitalSpacing int
	HomeRadius        int
	StartingUnits     []string
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h, nations int) MapConfig {
	return MapConfig{
		Width:             w,
		Height:            h,
		Nations:           nations,
		Border:            true,
		WaterRatio:        0.2,
		WaterBodies:       max(1, (w*h)/150),
		NumMountainVeins:  (w * h) / 50,
		MinVeinLength:     3,
		MaxVeinLength:     max(3, w/4),
		NumPatches:        (w * h) / 80,
		FeatureRatio:      25,
		MinCapitalSpacing: 5,
		HomeRadius:        1,
		StartingUnits:     []string{"infantry", "infantry", "tank"},
	}
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// CapitalPlacement tracks where a nation's capital was placed
type CapitalPlacement struct {
	Nation core.NationID
	Pos    core.Coordinate
}

// GenerateWorld builds a world with terrain, features, nations and their
// starting units. Every tile starts Hidden.
func (g *Generator) GenerateWorld(catalog *core.Catalog) (*core.World, error) {
	if g.config.Width <= 0 || g.config.Height <= 0 {
		return nil, fmt.Errorf("%w: map size %dx%d", core.ErrInvalidCoordinates, g.config.Width, g.config.Height)
	}
	if g.config.Nations > len(NationPalette) {
		return nil, fmt.Errorf("at most %d nations supported, got %d", len(NationPalette), g.config.Nations)
	}

	w := core.NewWorld(g.config.Width, g.config.Height, catalog)
	if g.config.Border {
		g.placeBorder(w.Board)
	}
	g.placeWater(w.Board)
	g.placeMountains(w.Board)
	g.placePatches(w.Board)

	capitals, err := g.placeCapitals(w)
	if err != nil {
		return nil, err
	}
	g.placeFeatures(w)
	if err := g.placeUnits(w, capitals); err != nil {
		return nil, err
	}
	return w, nil
}

func (g *Generator) placeBorder(b *core.Board) {
	for x := 0; x < b.W; x++ {
		b.GetTile(x, 0).Terrain = core.TerrainBorder
		b.GetTile(x, b.H-1).Terrain = core.TerrainBorder
	}
	for y := 0; y < b.H; y++ {
		b.GetTile(0, y).Terrain = core.TerrainBorder
		b.GetTile(b.W-1, y).Terrain = core.TerrainBorder
	}
}

func isOpenPlains(t *core.Tile) bool {
	return t.Terrain == core.TerrainPlains
}

// placeWater grows blobs from random seeds until the water share is met.
func (g *Generator) placeWater(b *core.Board) {
	want := int(float64(len(b.T)) * g.config.WaterRatio)
	if want <= 0 || g.config.WaterBodies <= 0 {
		return
	}

	var frontier []core.Coordinate
	placed := 0
	for i := 0; i < g.config.WaterBodies && placed < want; i++ {
		c := core.Coordinate{X: g.rng.Intn(b.W), Y: g.rng.Intn(b.H)}
		if t := b.At(c); t != nil && isOpenPlains(t) {
			t.Terrain = core.TerrainWater
			frontier = append(frontier, c)
			placed++
		}
	}

	maxAttempts := want * 20
	for attempts := 0; placed < want && len(frontier) > 0 && attempts < maxAttempts; attempts++ {
		from := frontier[g.rng.Intn(len(frontier))]
		next := from.Neighbors()[g.rng.Intn(4)]
		t := b.At(next)
		if t == nil || !isOpenPlains(t) {
			continue
		}
		t.Terrain = core.TerrainWater
		frontier = append(frontier, next)
		placed++
	}
}

// placeMountains lays random-walk veins over open plains
func (g *Generator) placeMountains(b *core.Board) {
	if g.config.NumMountainVeins <= 0 || g.config.MaxVeinLength <= 0 {
		return
	}
	span := g.config.MaxVeinLength - g.config.MinVeinLength + 1
	for v := 0; v < g.config.NumMountainVeins; v++ {
		length := g.config.MinVeinLength
		if span > 1 {
			length += g.rng.Intn(span)
		}
		cur := core.Coordinate{X: g.rng.Intn(b.W), Y: g.rng.Intn(b.H)}
		for step := 0; step < length; step++ {
			if t := b.At(cur); t != nil && isOpenPlains(t) {
				t.Terrain = core.TerrainMountains
			}
			next := cur.Neighbors()[g.rng.Intn(4)]
			if b.Contains(next) {
				cur = next
			}
		}
	}
}

var patchTerrains = []core.Terrain{core.TerrainForest, core.TerrainDesert, core.TerrainSwamps, core.TerrainSnowy}

// placePatches paints small plus-shaped blotches of rough terrain
func (g *Generator) placePatches(b *core.Board) {
	for i := 0; i < g.config.NumPatches; i++ {
		terrain := patchTerrains[g.rng.Intn(len(patchTerrains))]
		center := core.Coordinate{X: g.rng.Intn(b.W), Y: g.rng.Intn(b.H)}
		for _, c := range append(center.Neighbors(), center) {
			if t := b.At(c); t != nil && isOpenPlains(t) {
				t.Terrain = terrain
			}
		}
	}
}

func (g *Generator) placeCapitals(w *core.World) ([]CapitalPlacement, error) {
	placements := make([]CapitalPlacement, 0, g.config.Nations)
	for i := 0; i < g.config.Nations; i++ {
		id := NationPalette[i]
		pos, err := g.findCapitalLocation(w.Board, placements)
		if err != nil {
			return nil, fmt.Errorf("nation %s: %w", id, err)
		}
		w.Nations[id] = &core.Nation{ID: id, Name: string(id), Color: string(id)}
		capital := core.NewFeature(core.FeatureCity, pos)
		capital.Name = string(id) + " capital"
		w.AddEntity(capital)

		for _, c := range pos.Box(g.config.HomeRadius) {
			t := w.Board.At(c)
			if t == nil || t.IsBorder() || t.IsNaval() {
				continue
			}
			t.Owner = id
		}
		placements = append(placements, CapitalPlacement{Nation: id, Pos: pos})
	}
	return placements, nil
}

func (g *Generator) capitalAllowed(b *core.Board, c core.Coordinate, existing []CapitalPlacement) bool {
	t := b.At(c)
	if t == nil || !isOpenPlains(t) || t.IsOwned() {
		return false
	}
	for _, other := range existing {
		if c.DistanceTo(other.Pos) < g.config.MinCapitalSpacing {
			return false
		}
	}
	return true
}

func (g *Generator) findCapitalLocation(b *core.Board, existing []CapitalPlacement) (core.Coordinate, error) {
	maxAttempts := b.W * b.H // Fallback to prevent infinite loops
	for attempts := 0; attempts < maxAttempts; attempts++ {
		c := core.Coordinate{X: g.rng.Intn(b.W), Y: g.rng.Intn(b.H)}
		if g.capitalAllowed(b, c, existing) {
			return c, nil
		}
	}

	// Fallback: scan the board in order
	for idx := range b.T {
		c := core.FromIndex(idx, b.W)
		if g.capitalAllowed(b, c, existing) {
			return c, nil
		}
	}
	return core.Coordinate{}, fmt.Errorf("unable to place capital: no plains tile %d away from the others", g.config.MinCapitalSpacing)
}

var scatterFeatures = []string{core.FeatureVillage, core.FeatureVillage, core.FeatureCity, core.FeatureFort, core.FeatureQuarry}

// placeFeatures scatters settlements on free land and oil rigs on open water
func (g *Generator) placeFeatures(w *core.World) {
	if g.config.FeatureRatio <= 0 {
		return
	}
	b := w.Board
	land := 0
	for i := range b.T {
		if !b.T[i].IsNaval() && !b.T[i].IsBorder() {
			land++
		}
	}
	want := land / g.config.FeatureRatio
	placed := 0
	maxAttempts := want * 10
	for attempts := 0; placed < want && attempts < maxAttempts; attempts++ {
		c := core.Coordinate{X: g.rng.Intn(b.W), Y: g.rng.Intn(b.H)}
		t := b.At(c)
		if w.FeatureAt(c) != nil || t.IsBorder() || t.Terrain == core.TerrainMountains {
			continue
		}
		typ := scatterFeatures[g.rng.Intn(len(scatterFeatures))]
		if t.IsNaval() {
			if t.IsCanal() {
				continue
			}
			typ = core.FeatureOilRig
		}
		w.AddEntity(core.NewFeature(typ, c))
		placed++
	}
}

// placeUnits puts each nation's starting units on its home land, nearest
// to the capital first.
func (g *Generator) placeUnits(w *core.World, capitals []CapitalPlacement) error {
	for _, cp := range capitals {
		var spots []core.Coordinate
		for r := 0; r <= g.config.HomeRadius+1 && len(spots) < len(g.config.StartingUnits); r++ {
			for _, c := range cp.Pos.Box(r) {
				t := w.Board.At(c)
				if t == nil || t.Owner != cp.Nation || w.UnitAt(c) != nil || containsCoord(spots, c) {
					continue
				}
				spots = append(spots, c)
			}
		}
		for i, key := range g.config.StartingUnits {
			if i >= len(spots) {
				break
			}
			t, err := w.Catalog.UnitType(key)
			if err != nil {
				return fmt.Errorf("starting units of %s: %w", cp.Nation, err)
			}
			if !t.Class.CanEnter(w.Board.At(spots[i]).Terrain) {
				continue
			}
			w.AddEntity(core.NewUnit(t, spots[i], cp.Nation))
		}
	}
	return nil
}

func containsCoord(cells []core.Coordinate, c core.Coordinate) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
