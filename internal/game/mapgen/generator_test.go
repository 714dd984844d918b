package mapgen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/testutil"
)

// newTestRNG provides a random number generator with a fixed seed for deterministic tests.
func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func countTerrain(b *core.Board, t core.Terrain) int {
	n := 0
	for i := range b.T {
		if b.T[i].Terrain == t {
			n++
		}
	}
	return n
}

func TestDefaultMapConfig(t *testing.T) {
	w, h, nations := 20, 15, 2
	config := DefaultMapConfig(w, h, nations)

	assert.Equal(t, w, config.Width)
	assert.Equal(t, h, config.Height)
	assert.Equal(t, nations, config.Nations)
	assert.True(t, config.Border)
	assert.Equal(t, (w*h)/50, config.NumMountainVeins)
	assert.Equal(t, 3, config.MinVeinLength)
	assert.Equal(t, 5, config.MaxVeinLength)
	assert.Equal(t, 5, config.MinCapitalSpacing)
}

func TestNewGenerator(t *testing.T) {
	config := DefaultMapConfig(10, 10, 1)
	rng := newTestRNG()
	generator := NewGenerator(config, rng)

	require.NotNil(t, generator)
	assert.Equal(t, config, generator.config)
	assert.Same(t, rng, generator.rng)
}

func TestPlaceBorder(t *testing.T) {
	generator := NewGenerator(DefaultMapConfig(5, 4, 0), newTestRNG())
	board := core.NewBoard(5, 4)

	generator.placeBorder(board)

	assert.Equal(t, 2*5+2*4-4, countTerrain(board, core.TerrainBorder))
	assert.Equal(t, core.TerrainPlains, board.GetTile(2, 2).Terrain)
}

func TestPlaceWater(t *testing.T) {
	t.Run("ReachesRatio", func(t *testing.T) {
		config := DefaultMapConfig(20, 20, 0)
		config.WaterRatio = 0.25
		config.WaterBodies = 3
		board := core.NewBoard(20, 20)

		NewGenerator(config, newTestRNG()).placeWater(board)

		water := countTerrain(board, core.TerrainWater)
		assert.LessOrEqual(t, water, 100)
		assert.Greater(t, water, 0)
	})

	t.Run("NoWater", func(t *testing.T) {
		config := DefaultMapConfig(10, 10, 0)
		config.WaterRatio = 0
		board := core.NewBoard(10, 10)

		NewGenerator(config, newTestRNG()).placeWater(board)

		assert.Zero(t, countTerrain(board, core.TerrainWater))
	})
}

func TestPlaceMountains(t *testing.T) {
	t.Run("NoMountainVeins", func(t *testing.T) {
		config := DefaultMapConfig(10, 10, 0)
		config.NumMountainVeins = 0
		board := core.NewBoard(10, 10)

		NewGenerator(config, newTestRNG()).placeMountains(board)

		assert.Zero(t, countTerrain(board, core.TerrainMountains))
	})

	t.Run("BoundedByVeinLength", func(t *testing.T) {
		config := DefaultMapConfig(30, 30, 0)
		config.NumMountainVeins = 1
		config.MinVeinLength = 5
		config.MaxVeinLength = 5
		board := core.NewBoard(30, 30)

		NewGenerator(config, newTestRNG()).placeMountains(board)

		mountains := countTerrain(board, core.TerrainMountains)
		assert.GreaterOrEqual(t, mountains, 1)
		assert.LessOrEqual(t, mountains, 5)
	})

	t.Run("SmallBoardDoesNotPanic", func(t *testing.T) {
		config := DefaultMapConfig(3, 3, 0)
		config.NumMountainVeins = 10
		config.MinVeinLength = 1
		config.MaxVeinLength = 1
		board := core.NewBoard(3, 3)

		assert.NotPanics(t, func() {
			NewGenerator(config, newTestRNG()).placeMountains(board)
		})
		assert.LessOrEqual(t, countTerrain(board, core.TerrainMountains), 9)
	})

	t.Run("KeepsWater", func(t *testing.T) {
		config := DefaultMapConfig(3, 3, 0)
		config.NumMountainVeins = 20
		config.MinVeinLength = 3
		config.MaxVeinLength = 3
		board := core.NewBoard(3, 3)
		for i := range board.T {
			board.T[i].Terrain = core.TerrainWater
		}

		NewGenerator(config, newTestRNG()).placeMountains(board)

		assert.Equal(t, 9, countTerrain(board, core.TerrainWater))
	})
}

func TestPlaceCapitals(t *testing.T) {
	t.Run("SpacingAndHomeland", func(t *testing.T) {
		config := DefaultMapConfig(20, 20, 4)
		config.MinCapitalSpacing = 3
		w := core.NewWorld(20, 20, testutil.Catalog())

		placements, err := NewGenerator(config, newTestRNG()).placeCapitals(w)
		require.NoError(t, err)
		require.Len(t, placements, 4)

		for i, p := range placements {
			assert.Equal(t, NationPalette[i], p.Nation)
			require.Contains(t, w.Nations, p.Nation)
			f := w.FeatureAt(p.Pos)
			require.NotNil(t, f)
			assert.Equal(t, core.FeatureCity, f.Type)
			assert.Equal(t, p.Nation, w.Board.At(p.Pos).Owner)
		}
		for i := 0; i < len(placements); i++ {
			for j := i + 1; j < len(placements); j++ {
				assert.GreaterOrEqual(t, placements[i].Pos.DistanceTo(placements[j].Pos), config.MinCapitalSpacing)
			}
		}
	})

	t.Run("NoNations", func(t *testing.T) {
		w := core.NewWorld(10, 10, testutil.Catalog())
		placements, err := NewGenerator(DefaultMapConfig(10, 10, 0), newTestRNG()).placeCapitals(w)
		assert.NoError(t, err)
		assert.Empty(t, placements)
		assert.Empty(t, w.Features)
	})

	t.Run("ImpossibleSpacing", func(t *testing.T) {
		config := DefaultMapConfig(3, 3, 3)
		config.MinCapitalSpacing = 5
		w := core.NewWorld(3, 3, testutil.Catalog())

		_, err := NewGenerator(config, newTestRNG()).placeCapitals(w)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to place capital")
	})

	t.Run("FallbackScanFindsLastSpots", func(t *testing.T) {
		config := DefaultMapConfig(3, 3, 2)
		config.MinCapitalSpacing = 4
		config.HomeRadius = 0
		w := core.NewWorld(3, 3, testutil.Catalog())
		for i := range w.Board.T {
			w.Board.T[i].Terrain = core.TerrainMountains
		}
		w.Board.GetTile(0, 0).Terrain = core.TerrainPlains
		w.Board.GetTile(2, 2).Terrain = core.TerrainPlains

		placements, err := NewGenerator(config, newTestRNG()).placeCapitals(w)
		require.NoError(t, err)
		require.Len(t, placements, 2)
		assert.ElementsMatch(t,
			[]core.Coordinate{{X: 0, Y: 0}, {X: 2, Y: 2}},
			[]core.Coordinate{placements[0].Pos, placements[1].Pos})
	})
}

func TestGenerateWorld_FullIntegration(t *testing.T) {
	config := DefaultMapConfig(25, 25, 3)
	config.MinCapitalSpacing = 6

	w, err := NewGenerator(config, newTestRNG()).GenerateWorld(testutil.Catalog())
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.Equal(t, 25, w.Board.W)
	assert.Equal(t, 25, w.Board.H)
	assert.Len(t, w.Nations, 3)
	assert.Equal(t, 1, w.Turn)

	for idx, tile := range w.Board.T {
		assert.Equal(t, core.Hidden, tile.Visibility)
		x, y := w.Board.XY(idx)
		if x == 0 || y == 0 || x == 24 || y == 24 {
			assert.Equal(t, core.TerrainBorder, tile.Terrain, "(%d,%d)", x, y)
		}
	}

	assert.NotEmpty(t, w.Units)
	for _, u := range w.Units {
		tile := w.Board.At(u.Pos)
		assert.Equal(t, u.Nation, tile.Owner, "units start on home land")
		assert.True(t, u.Class().CanEnter(tile.Terrain))
		assert.Same(t, u, w.UnitAt(u.Pos), "one unit per cell")
	}
	for _, f := range w.Features {
		tile := w.Board.At(f.Pos)
		if f.Type == core.FeatureOilRig {
			assert.True(t, tile.IsNaval())
		} else {
			assert.False(t, tile.IsNaval())
		}
	}
}

func TestGenerateWorld_Deterministic(t *testing.T) {
	config := DefaultMapConfig(16, 12, 2)
	a, err := NewGenerator(config, newTestRNG()).GenerateWorld(testutil.Catalog())
	require.NoError(t, err)
	b, err := NewGenerator(config, newTestRNG()).GenerateWorld(testutil.Catalog())
	require.NoError(t, err)

	assert.Equal(t, a.Board.T, b.Board.T)
	require.Equal(t, len(a.Units), len(b.Units))
	for i := range a.Units {
		assert.Equal(t, a.Units[i].Pos, b.Units[i].Pos)
		assert.Equal(t, a.Units[i].Key(), b.Units[i].Key())
	}
}

func TestGenerateWorld_Errors(t *testing.T) {
	_, err := NewGenerator(DefaultMapConfig(0, 5, 1), newTestRNG()).GenerateWorld(testutil.Catalog())
	assert.ErrorIs(t, err, core.ErrInvalidCoordinates)

	_, err = NewGenerator(DefaultMapConfig(40, 40, 9), newTestRNG()).GenerateWorld(testutil.Catalog())
	assert.Error(t, err)

	config := DefaultMapConfig(12, 12, 1)
	config.StartingUnits = []string{"dragon"}
	_, err = NewGenerator(config, newTestRNG()).GenerateWorld(testutil.Catalog())
	assert.ErrorIs(t, err, core.ErrUnknownUnitType)
}
