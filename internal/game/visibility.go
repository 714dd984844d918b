package game

// This file contains all fog of war and visibility-related functionality for the game engine.

import (
	"slices"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/events"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/rules"
)

// FogConfig sets the vision radii. Radii are Chebyshev (box) distances.
type FogConfig struct {
	Enabled        bool
	OwnedRadius    int
	UnitRadius     int
	FeatureRadius  int
	VisionFeatures []string
}

// DefaultFogConfig matches the classic rules: a 1-box around owned land and
// units, a 2-box around settlements and forts.
func DefaultFogConfig() FogConfig {
	return FogConfig{
		Enabled:       true,
		OwnedRadius:   1,
		UnitRadius:    1,
		FeatureRadius: 2,
		VisionFeatures: []string{
			core.FeatureCity, core.FeatureAbandonCity,
			core.FeatureVillage, core.FeatureAbandonVil,
			core.FeatureFort,
		},
	}
}

// VisibleSet returns every on-board cell the viewer's alliance sees.
func VisibleSet(w *core.World, viewer core.NationID, cfg FogConfig) map[core.Coordinate]bool {
	visible := make(map[core.Coordinate]bool)
	if viewer == "" {
		return visible
	}
	allies := w.Allies(viewer)
	allied := func(n core.NationID) bool { return n != "" && slices.Contains(allies, n) }
	mark := func(cells []core.Coordinate) {
		for _, c := range cells {
			if w.Board.Contains(c) {
				visible[c] = true
			}
		}
	}

	for idx := range w.Board.T {
		if allied(w.Board.T[idx].Owner) {
			mark(core.FromIndex(idx, w.Board.W).Box(cfg.OwnedRadius))
		}
	}

	for _, u := range w.Units {
		if !allied(u.Nation) {
			continue
		}
		mark(u.Pos.Box(cfg.UnitRadius))
		for _, o := range u.Template().ActionOffsets() {
			cell := u.Pos.Add(o)
			mark([]core.Coordinate{cell})
			mark(cell.Neighbors())
		}
	}

	for _, f := range w.Features {
		if !isVisionFeature(w, f, cfg) {
			continue
		}
		if tile := w.Board.At(f.Pos); tile != nil && allied(tile.Owner) {
			mark(f.Pos.Box(cfg.FeatureRadius))
		}
	}
	return visible
}

func isVisionFeature(w *core.World, f *core.Feature, cfg FogConfig) bool {
	if slices.Contains(cfg.VisionFeatures, f.Type) {
		return true
	}
	ft := w.Catalog.FeatureType(f.Type)
	return ft != nil && ft.Vision
}

// updateFogOfWar rewrites tile visibility for the current viewer. Visible
// tiles fade to Remembered before the new visible set is applied; tiles
// never seen stay Hidden.
func (e *Engine) updateFogOfWar() {
	w := e.world
	switch {
	case !e.fog.Enabled || !w.FogEnabled || e.planner.Mode() == rules.ModeEditor:
		setAllVisibility(w.Board, core.Visible)
	case e.viewer == "":
		setAllVisibility(w.Board, core.Hidden)
	default:
		visible := VisibleSet(w, e.viewer, e.fog)
		for idx := range w.Board.T {
			tile := &w.Board.T[idx]
			switch {
			case visible[core.FromIndex(idx, w.Board.W)]:
				tile.Visibility = core.Visible
			case tile.Visibility == core.Visible:
				tile.Visibility = core.Remembered
			}
		}
	}

	counts := make(map[core.Visibility]int, 3)
	for idx := range w.Board.T {
		counts[w.Board.T[idx].Visibility]++
	}
	e.logger.Debug().
		Str("viewer", string(e.viewer)).
		Int("visible", counts[core.Visible]).
		Int("remembered", counts[core.Remembered]).
		Msg("Performed full visibility update")
	e.eventBus.Publish(events.NewVisibilityUpdatedEvent(
		e.sessionID, w.Turn, e.viewer,
		counts[core.Visible], counts[core.Remembered], counts[core.Hidden]))
}

func setAllVisibility(b *core.Board, v core.Visibility) {
	for i := range b.T {
		b.T[i].Visibility = v
	}
}
