package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, key := range []string{"infantry", "tank", "artillery", "truck", "ship", "battleship", "plane"} {
		ut, err := c.UnitType(key)
		require.NoError(t, err, key)
		assert.Equal(t, core.CellCenter, ut.Template[2][2], key)
		assert.NotEmpty(t, ut.Name, key)
	}
	for _, key := range []string{
		core.FeatureCity, core.FeatureAbandonCity, core.FeatureVillage, core.FeatureAbandonVil,
		core.FeatureFort, core.FeatureQuarry, core.FeatureQuarryEmpty, core.FeatureOilRig,
	} {
		assert.NotNil(t, c.FeatureType(key), key)
	}

	assert.True(t, c.FeatureType(core.FeatureOilRig).Naval)
	assert.False(t, c.FeatureType(core.FeatureCity).Naval)
	assert.True(t, c.FeatureType(core.FeatureFort).Vision)
	assert.Equal(t, 1.0, c.FeatureType(core.FeatureFort).Bonuses["arm"])

	truck, _ := c.UnitType("truck")
	assert.Equal(t, 0.5, truck.LoadCostOr(core.DefaultLoadCost))
	battleship, _ := c.UnitType("battleship")
	assert.Equal(t, 0.0, battleship.LoadCostOr(core.DefaultLoadCost))
	plane, _ := c.UnitType("plane")
	assert.Equal(t, core.ClassAir, plane.Class)
	assert.Equal(t, core.DefaultLoadCost, plane.LoadCostOr(core.DefaultLoadCost))

	inf, _ := c.UnitType("infantry")
	assert.Equal(t, "1x2", inf.Stats[core.StatSupport])
	assert.Equal(t, "3", inf.Stats[core.StatSpeed])

	require.Contains(t, c.Techs, "composite_armor")
	assert.Equal(t, []string{"drill"}, c.Techs["composite_armor"].Prerequisites)
	assert.Equal(t, core.ClassLand, c.Techs["composite_armor"].Bonus.UnitClass)
	assert.Equal(t, "=8", c.Techs["jet_engines"].Bonus.Modifiers[core.StatSpeed])
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)

	delete(a.UnitTypes, "tank")
	assert.Contains(t, b.UnitTypes, "tank")
	assert.NotSame(t, a.UnitTypes["infantry"], b.UnitTypes["infantry"])
}

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte(`
unit_types:
  Misc:
    scout: {name: Scout, class: land}
    blob: {}
feature_types:
  Misc:
    ruin: {}
`))
	require.NoError(t, err)

	scout, err := c.UnitType("scout")
	require.NoError(t, err)
	assert.Equal(t, core.DefaultTemplate(), scout.Template)
	assert.Equal(t, core.DefaultStatBlock(), scout.Stats)
	assert.Nil(t, scout.LoadCost)

	blob, err := c.UnitType("blob")
	require.NoError(t, err)
	assert.Equal(t, "blob", blob.Name)
	assert.Equal(t, core.ClassLand, blob.Class)

	ruin := c.FeatureType("ruin")
	require.NotNil(t, ruin)
	assert.Equal(t, "ruin", ruin.Name)
	assert.NotNil(t, ruin.Bonuses)
}

func TestParse_NumericStatsBecomeStrings(t *testing.T) {
	c, err := Parse([]byte(`
unit_types:
  Misc:
    golem:
      stats: {str: 4, arm: 1.5}
`))
	require.NoError(t, err)
	golem, err := c.UnitType("golem")
	require.NoError(t, err)
	assert.Equal(t, "4", golem.Stats[core.StatStrength])
	assert.Equal(t, "1.5", golem.Stats[core.StatArmor])
	assert.Equal(t, "0", golem.Stats[core.StatSpeed], "missing stats keep their default")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "unit_types: [not, a, map"},
		{"unknown class", "unit_types: {M: {x: {class: submarine}}}"},
		{"short grid", "unit_types: {M: {x: {grid: [[0,0,0,0,0]]}}}"},
		{"bad cell", `
unit_types:
  M:
    x:
      grid: [[0,0,0,0,0],[0,0,0,0,0],[0,0,9,7,0],[0,0,0,0,0],[0,0,0,0,0]]`},
		{"center off center", `
unit_types:
  M:
    x:
      grid: [[9,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0]]`},
		{"unknown prerequisite", "techs: {a: {name: A, prerequisites: [zz]}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
unit_types:
  Humans:
    tank:
      name: Heavy Tank
      class: land
      weight: 6
      stats: {str: "7", arm: "3", sup: "0", spe: "2", cost: "6"}
    zeppelin:
      name: Zeppelin
      class: air
techs:
  airships:
    name: Airships
    prerequisites: [steam_turbines]
    bonus: {unit_keys: [zeppelin], modifiers: {spe: "+2"}}
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	tank, err := c.UnitType("tank")
	require.NoError(t, err)
	assert.Equal(t, "Heavy Tank", tank.Name)
	assert.Equal(t, 6.0, tank.Weight)
	assert.Equal(t, core.DefaultTemplate(), tank.Template, "overlay replaces the whole entry")

	_, err = c.UnitType("zeppelin")
	assert.NoError(t, err)
	_, err = c.UnitType("infantry")
	assert.NoError(t, err, "built-in entries survive")
	assert.Contains(t, c.Techs, "airships")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	c, err := Load("")
	require.NoError(t, err)
	assert.Contains(t, c.UnitTypes, "infantry")
}

func TestOverlay_InvalidLeavesCatalogUntouched(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	before := len(c.UnitTypes)

	err = Overlay(c, []byte("unit_types: {M: {new: {}, bad: {class: wheel}}}"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Len(t, c.UnitTypes, before)
	assert.NotContains(t, c.UnitTypes, "new")
}
