package core

import "fmt"

// Terrain is the land type of a tile. Values are the display names used in
// snapshots.
type Terrain string

const (
	TerrainPlains           Terrain = "Plains"
	TerrainWater            Terrain = "Water"
	TerrainMountains        Terrain = "Mountains"
	TerrainDesert           Terrain = "Desert"
	TerrainSwamps           Terrain = "Swamps"
	TerrainSnowy            Terrain = "Snowy"
	TerrainForest           Terrain = "Forest"
	TerrainBorder           Terrain = "Border"
	TerrainObjective        Terrain = "Objective"
	TerrainCanal            Terrain = "Canal"
	TerrainTerritorialWater Terrain = "Territorial Water"
)

// AllTerrains lists every terrain kind in display order.
var AllTerrains = []Terrain{
	TerrainPlains, TerrainWater, TerrainMountains, TerrainDesert, TerrainSwamps,
	TerrainSnowy, TerrainForest, TerrainBorder, TerrainObjective, TerrainCanal,
	TerrainTerritorialWater,
}

// ParseTerrain converts a display name into a Terrain.
func ParseTerrain(s string) (Terrain, error) {
	for _, t := range AllTerrains {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTerrain, s)
}

// IsNaval reports whether ships may sail on the terrain. Canal counts as
// naval and is also open to land units.
func (t Terrain) IsNaval() bool {
	return t == TerrainWater || t == TerrainCanal || t == TerrainTerritorialWater
}

// IsWater reports open water, territorial or not.
func (t Terrain) IsWater() bool {
	return t == TerrainWater || t == TerrainTerritorialWater
}

// Symbol is the single rune used by the text renderer.
func (t Terrain) Symbol() rune {
	switch t {
	case TerrainWater:
		return '~'
	case TerrainTerritorialWater:
		return '='
	case TerrainMountains:
		return '^'
	case TerrainDesert:
		return ':'
	case TerrainSwamps:
		return '%'
	case TerrainSnowy:
		return '*'
	case TerrainForest:
		return 'f'
	case TerrainBorder:
		return '#'
	case TerrainObjective:
		return 'O'
	case TerrainCanal:
		return '-'
	default:
		return '.'
	}
}
