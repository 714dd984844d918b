package game

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// This file contains all board rendering functionality for the game engine.

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

var nationColors = map[string]string{
	"red":    ColorRed,
	"blue":   ColorBlue,
	"green":  ColorGreen,
	"yellow": ColorYellow,
	"purple": ColorPurple,
	"cyan":   ColorCyan,
	"orange": ColorYellow,
	"white":  ColorWhite,
}

var terrainSymbols = map[core.Terrain]string{
	core.TerrainPlains:           "·",
	core.TerrainWater:            "~",
	core.TerrainMountains:        "▲",
	core.TerrainDesert:           ":",
	core.TerrainSwamps:           "\"",
	core.TerrainSnowy:            "*",
	core.TerrainForest:           "♣",
	core.TerrainBorder:           "#",
	core.TerrainObjective:        "★",
	core.TerrainCanal:            "=",
	core.TerrainTerritorialWater: "≈",
}

var featureSymbols = map[string]string{
	core.FeatureCity:        "⬢",
	core.FeatureAbandonCity: "⬡",
	core.FeatureVillage:     "⌂",
	core.FeatureAbandonVil:  "⌂",
	core.FeatureFort:        "♜",
	core.FeatureQuarry:      "◊",
	core.FeatureQuarryEmpty: "◊",
	core.FeatureOilRig:      "⛽",
}

// Board returns the board as the current viewer sees it. Hidden tiles are
// blank, remembered tiles show terrain only, visible tiles show the top unit
// or feature colored by the tile owner.
func (e *Engine) Board() string {
	b := e.world.Board

	var sb strings.Builder
	sb.Grow((b.W*16 + 8) * (b.H + 3))

	sb.WriteString("   ")
	for x := 0; x < b.W; x++ {
		fmt.Fprintf(&sb, "%2d", x%100)
	}
	sb.WriteString("\n")

	for y := 0; y < b.H; y++ {
		fmt.Fprintf(&sb, "%2d ", y%100)
		for x := 0; x < b.W; x++ {
			e.writeCell(&sb, core.Coordinate{X: x, Y: y})
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n·=plains ~=water ≈=territorial ▲=mountain #=border ⬢=city ♜=fort Letters=units\n")
	return sb.String()
}

func (e *Engine) writeCell(sb *strings.Builder, c core.Coordinate) {
	tile := e.world.Board.At(c)
	switch tile.Visibility {
	case core.Hidden:
		sb.WriteString("  ")
		return
	case core.Remembered:
		sb.WriteString(ColorGray)
		sb.WriteString(" ")
		sb.WriteString(terrainSymbol(tile.Terrain))
		sb.WriteString(ColorReset)
		return
	}

	sb.WriteString(e.ownerColor(tile.Owner))
	sb.WriteString(" ")
	switch {
	case e.world.UnitAt(c) != nil:
		u := e.world.UnitAt(c)
		sb.WriteString(e.ownerColor(u.Nation))
		sb.WriteString(unitSymbol(u))
	case e.world.FeatureAt(c) != nil:
		sb.WriteString(featureSymbol(e.world.FeatureAt(c).Type))
	default:
		sb.WriteString(terrainSymbol(tile.Terrain))
	}
	sb.WriteString(ColorReset)
}

func (e *Engine) ownerColor(id core.NationID) string {
	if id == "" {
		return ColorGray
	}
	if n, ok := e.world.Nations[id]; ok {
		if c, ok := nationColors[strings.ToLower(n.Color)]; ok {
			return c
		}
	}
	if c, ok := nationColors[strings.ToLower(string(id))]; ok {
		return c
	}
	return ColorWhite
}

// unitSymbol is the first letter of the unit type, upper case for units
// carrying cargo.
func unitSymbol(u *core.Unit) string {
	key := []rune(u.Key())
	if len(key) == 0 {
		return "?"
	}
	r := unicode.ToLower(key[0])
	if u.HasCargo() {
		r = unicode.ToUpper(r)
	}
	return string(r)
}

func terrainSymbol(t core.Terrain) string {
	if s, ok := terrainSymbols[t]; ok {
		return s
	}
	return "?"
}

func featureSymbol(typ string) string {
	if s, ok := featureSymbols[typ]; ok {
		return s
	}
	return "○"
}
