// Package territory derives nation-level views from the map: territorial
// waters, contiguous owned regions with label placement, and the
// leaderboard.
package territory

import (
	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// WaterReach is the Manhattan distance from a coast within which water is
// claimed by the closest nation.
const WaterReach = 2

// UpdateTerritorialWaters reassigns ownership of naval tiles. Water within
// WaterReach of exactly one closest nation's coastal tile becomes
// Territorial Water owned by that nation, other water reverts to unowned
// Water. Canals only change owner. Tiles carrying a feature are left alone.
// It returns the number of tiles that changed.
func UpdateTerritorialWaters(w *core.World) int {
	b := w.Board

	coasts := make(map[core.NationID][]core.Coordinate)
	var water []core.Coordinate
	for idx := range b.T {
		c := core.FromIndex(idx, b.W)
		tile := &b.T[idx]
		switch {
		case tile.IsNaval():
			water = append(water, c)
		case tile.IsOwned() && isCoastal(b, c):
			coasts[tile.Owner] = append(coasts[tile.Owner], c)
		}
	}

	occupied := make(map[core.Coordinate]bool, len(w.Features))
	for _, f := range w.Features {
		occupied[f.Pos] = true
		if f.Type != core.FeatureOilRig {
			continue
		}
		// an owned rig projects waters like a stretch of coast
		if tile := b.At(f.Pos); tile != nil && tile.IsOwned() && !containsCell(coasts[tile.Owner], f.Pos) {
			coasts[tile.Owner] = append(coasts[tile.Owner], f.Pos)
		}
	}

	changed := 0
	for _, c := range water {
		if occupied[c] {
			continue
		}
		owner := closestNation(coasts, c)
		tile := b.At(c)
		if tile.IsCanal() {
			if tile.Owner != owner {
				tile.Owner = owner
				changed++
			}
			continue
		}
		terrain := core.TerrainWater
		if owner != "" {
			terrain = core.TerrainTerritorialWater
		}
		if tile.Owner != owner || tile.Terrain != terrain {
			tile.Owner = owner
			tile.Terrain = terrain
			changed++
		}
	}
	return changed
}

func isCoastal(b *core.Board, c core.Coordinate) bool {
	for _, n := range c.Neighbors() {
		if t := b.At(n); t != nil && t.IsNaval() {
			return true
		}
	}
	return false
}

// closestNation returns the single nation with the nearest coast within
// WaterReach, or "" when none is in reach or the nearest are tied.
func closestNation(coasts map[core.NationID][]core.Coordinate, c core.Coordinate) core.NationID {
	best := WaterReach + 1
	var owner core.NationID
	tied := false
	for nation, cells := range coasts {
		d := best + 1
		for _, cc := range cells {
			d = min(d, c.DistanceTo(cc))
		}
		switch {
		case d < best:
			best, owner, tied = d, nation, false
		case d == best && d <= WaterReach:
			tied = true
		}
	}
	if tied || best > WaterReach {
		return ""
	}
	return owner
}

func containsCell(cells []core.Coordinate, c core.Coordinate) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
