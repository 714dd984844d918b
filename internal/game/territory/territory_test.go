package territory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/testutil"
)

func c(x, y int) core.Coordinate { return core.Coordinate{X: x, Y: y} }

func own(w *core.World, n core.NationID, cells ...core.Coordinate) {
	for _, cell := range cells {
		w.Board.At(cell).Owner = n
	}
}

func TestUpdateTerritorialWaters_Reach(t *testing.T) {
	w := testutil.NewWorld(7, 1)
	testutil.FillTerrain(w, core.TerrainWater, c(2, 0), c(6, 0))
	own(w, "red", c(0, 0), c(1, 0))

	changed := UpdateTerritorialWaters(w)

	assert.Equal(t, 2, changed)
	for x, want := range []core.Terrain{
		core.TerrainPlains, core.TerrainPlains,
		core.TerrainTerritorialWater, core.TerrainTerritorialWater,
		core.TerrainWater, core.TerrainWater, core.TerrainWater,
	} {
		assert.Equal(t, want, w.Board.At(c(x, 0)).Terrain, "x=%d", x)
	}
	assert.Equal(t, core.NationID("red"), w.Board.At(c(3, 0)).Owner)
	assert.Equal(t, core.NationID(""), w.Board.At(c(4, 0)).Owner)

	assert.Zero(t, UpdateTerritorialWaters(w), "recompute is idempotent")
}

func TestUpdateTerritorialWaters_TieLeavesUnowned(t *testing.T) {
	w := testutil.NewWorld(5, 1)
	testutil.FillTerrain(w, core.TerrainWater, c(1, 0), c(3, 0))
	own(w, "red", c(0, 0))
	own(w, "blue", c(4, 0))

	UpdateTerritorialWaters(w)

	assert.Equal(t, core.NationID("red"), w.Board.At(c(1, 0)).Owner)
	assert.Equal(t, core.NationID(""), w.Board.At(c(2, 0)).Owner)
	assert.Equal(t, core.TerrainWater, w.Board.At(c(2, 0)).Terrain)
	assert.Equal(t, core.NationID("blue"), w.Board.At(c(3, 0)).Owner)
}

func TestUpdateTerritorialWaters_LostCoastReverts(t *testing.T) {
	w := testutil.NewWorld(3, 1)
	testutil.SetTerrain(w, core.TerrainWater, c(1, 0))
	own(w, "red", c(0, 0))
	UpdateTerritorialWaters(w)
	require.Equal(t, core.TerrainTerritorialWater, w.Board.At(c(1, 0)).Terrain)

	own(w, "", c(0, 0))
	UpdateTerritorialWaters(w)

	assert.Equal(t, core.TerrainWater, w.Board.At(c(1, 0)).Terrain)
	assert.Equal(t, core.NationID(""), w.Board.At(c(1, 0)).Owner)
}

func TestUpdateTerritorialWaters_CanalKeepsTerrain(t *testing.T) {
	w := testutil.NewWorld(3, 1)
	testutil.SetTerrain(w, core.TerrainCanal, c(1, 0))
	own(w, "red", c(0, 0))

	UpdateTerritorialWaters(w)

	assert.Equal(t, core.TerrainCanal, w.Board.At(c(1, 0)).Terrain)
	assert.Equal(t, core.NationID("red"), w.Board.At(c(1, 0)).Owner)
}

func TestUpdateTerritorialWaters_FeatureTileUntouched(t *testing.T) {
	w := testutil.NewWorld(3, 1)
	testutil.FillTerrain(w, core.TerrainWater, c(1, 0), c(2, 0))
	own(w, "red", c(0, 0))
	w.AddEntity(core.NewFeature(core.FeatureOilRig, c(1, 0)))

	UpdateTerritorialWaters(w)

	assert.Equal(t, core.TerrainWater, w.Board.At(c(1, 0)).Terrain)
	assert.Equal(t, core.TerrainTerritorialWater, w.Board.At(c(2, 0)).Terrain)
}

func TestUpdateTerritorialWaters_SettledBoardReportsNoChange(t *testing.T) {
	w := testutil.NewWorld(3, 1)
	testutil.FillTerrain(w, core.TerrainWater, c(1, 0), c(2, 0))
	own(w, "red", c(0, 0))
	require.Equal(t, 2, UpdateTerritorialWaters(w))

	// a rig on claimed water keeps its tile as it was
	w.AddEntity(core.NewFeature(core.FeatureOilRig, c(1, 0)))
	assert.Zero(t, UpdateTerritorialWaters(w))
	assert.Equal(t, core.TerrainTerritorialWater, w.Board.At(c(1, 0)).Terrain)
	assert.Equal(t, core.NationID("red"), w.Board.At(c(1, 0)).Owner)
	assert.Equal(t, core.TerrainTerritorialWater, w.Board.At(c(2, 0)).Terrain)
}

func TestUpdateTerritorialWaters_OwnedOilRigProjects(t *testing.T) {
	w := testutil.NewWorld(5, 1)
	testutil.FillTerrain(w, core.TerrainWater, c(0, 0), c(4, 0))
	own(w, "blue", c(0, 0))
	w.AddEntity(core.NewFeature(core.FeatureOilRig, c(0, 0)))

	UpdateTerritorialWaters(w)

	assert.Equal(t, core.NationID("blue"), w.Board.At(c(2, 0)).Owner)
	assert.Equal(t, core.NationID(""), w.Board.At(c(3, 0)).Owner)
}

func TestCache_Regions(t *testing.T) {
	w := testutil.NewWorld(6, 6)
	own(w, "red", c(0, 0), c(1, 0), c(2, 0))
	own(w, "blue", c(5, 0), c(5, 1), c(5, 2))
	own(w, "red", c(0, 5), c(1, 5))

	regions := NewCache(w, testutil.NopLogger()).Regions()

	require.Len(t, regions["red"], 1, "two-tile region gets no label")
	red := regions["red"][0]
	assert.InDelta(t, 1.0, red.CenterX, 1e-9)
	assert.InDelta(t, 0.0, red.CenterY, 1e-9)
	assert.InDelta(t, 0.0, red.Angle, 1e-9)

	require.Len(t, regions["blue"], 1)
	assert.InDelta(t, -90.0, regions["blue"][0].Angle, 1e-9)
}

func TestComponents_FourConnected(t *testing.T) {
	w := testutil.NewWorld(3, 3)
	own(w, "red", c(0, 0), c(1, 1), c(2, 2))

	assert.Len(t, Components(w.Board), 3, "diagonal tiles are separate regions")
}

func TestCache_Leaderboard(t *testing.T) {
	w := testutil.NewWorld(4, 4)
	testutil.AddUnit(w, "infantry", c(0, 0), "red")
	own(w, "red", c(1, 1))
	w.AddEntity(core.NewFeature(core.FeatureCity, c(1, 1)))
	w.AddEntity(core.NewFeature(core.FeatureOilRig, c(3, 3)))
	w.Nations["red"].Techs = []string{"drill"}

	cache := NewCache(w, testutil.NopLogger())
	board := cache.Leaderboard()

	require.Len(t, board, 2)
	blue, red := board[0], board[1]
	assert.Equal(t, Standing{Nation: "blue"}, blue)
	assert.Equal(t, core.NationID("red"), red.Nation)
	assert.Equal(t, 1, red.ManpowerUsed)
	assert.Equal(t, 2, red.ManpowerTotal)
	assert.Equal(t, 1, red.Techs)
	// cost 1 + 0.5*3 str + 0.5*2 sup + 0.25*3 spe = 4.25
	assert.Equal(t, 4, red.Strength)
	assert.Equal(t, 3, cache.TotalManpower())
}

func TestCache_StaysMemoizedUntilInvalidated(t *testing.T) {
	w := testutil.NewWorld(4, 4)
	cache := NewCache(w, testutil.NopLogger())
	assert.Zero(t, cache.Leaderboard()[1].ManpowerUsed)
	assert.False(t, cache.Dirty())

	testutil.AddUnit(w, "tank", c(0, 0), "red")
	assert.Zero(t, cache.Leaderboard()[1].ManpowerUsed, "stale until invalidated")

	cache.Invalidate()
	assert.Equal(t, 4, cache.Leaderboard()[1].ManpowerUsed)
}
