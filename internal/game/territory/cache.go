package territory

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// MinRegionSize is the smallest region that gets a label.
const MinRegionSize = 3

// Region is a 4-connected set of tiles owned by one nation.
type Region struct {
	Nation core.NationID
	Tiles  []core.Coordinate
	// CenterX and CenterY are the mean tile position
	CenterX float64
	CenterY float64
	// Angle is the label rotation in degrees along the principal axis
	Angle float64
}

// Standing is one leaderboard row.
type Standing struct {
	Nation        core.NationID
	ManpowerUsed  int
	ManpowerTotal int
	Strength      int
	Techs         int
}

// Cache memoizes the derived territory views of a world. Views are rebuilt
// lazily after Invalidate.
type Cache struct {
	world  *core.World
	logger zerolog.Logger

	dirty         bool
	regions       map[core.NationID][]Region
	standings     []Standing
	totalManpower int
}

// NewCache creates a dirty cache for w.
func NewCache(w *core.World, logger zerolog.Logger) *Cache {
	return &Cache{
		world:  w,
		dirty:  true,
		logger: logger.With().Str("component", "TerritoryCache").Logger(),
	}
}

// Invalidate marks every view stale. It is cheap and idempotent.
func (c *Cache) Invalidate() { c.dirty = true }

// Dirty reports whether the next read rebuilds the views.
func (c *Cache) Dirty() bool { return c.dirty }

// Regions returns the labelled regions of every known nation.
func (c *Cache) Regions() map[core.NationID][]Region {
	c.refresh()
	return c.regions
}

// Leaderboard returns one row per nation, sorted by nation id.
func (c *Cache) Leaderboard() []Standing {
	c.refresh()
	return c.standings
}

// TotalManpower is the manpower yield of every feature on the map, owned
// or not.
func (c *Cache) TotalManpower() int {
	c.refresh()
	return c.totalManpower
}

func (c *Cache) refresh() {
	if !c.dirty {
		return
	}
	c.regions = c.buildRegions()
	c.standings, c.totalManpower = c.buildLeaderboard()
	c.dirty = false
	c.logger.Debug().
		Int("nations", len(c.standings)).
		Int("total_manpower", c.totalManpower).
		Msg("Territory views rebuilt")
}

func (c *Cache) buildRegions() map[core.NationID][]Region {
	out := make(map[core.NationID][]Region)
	for _, comp := range Components(c.world.Board) {
		if _, ok := c.world.Nations[comp.Nation]; !ok {
			continue
		}
		if len(comp.Tiles) < MinRegionSize {
			continue
		}
		r, ok := labelRegion(comp)
		if !ok {
			continue
		}
		out[comp.Nation] = append(out[comp.Nation], r)
	}
	return out
}

// Components splits owned tiles into 4-connected regions, scanning rows top
// to bottom.
func Components(b *core.Board) []Region {
	visited := make([]bool, len(b.T))
	var out []Region
	for idx := range b.T {
		owner := b.T[idx].Owner
		if visited[idx] || owner == "" {
			continue
		}
		start := core.FromIndex(idx, b.W)
		visited[idx] = true
		comp := Region{Nation: owner, Tiles: []core.Coordinate{start}}
		for q := []core.Coordinate{start}; len(q) > 0; {
			cur := q[0]
			q = q[1:]
			for _, n := range cur.Neighbors() {
				t := b.At(n)
				if t == nil || t.Owner != owner {
					continue
				}
				ni := n.ToIndex(b.W)
				if visited[ni] {
					continue
				}
				visited[ni] = true
				q = append(q, n)
				comp.Tiles = append(comp.Tiles, n)
			}
		}
		out = append(out, comp)
	}
	return out
}

// labelRegion fills the centroid and the principal-axis angle of the
// covariance of the tile positions.
func labelRegion(r Region) (Region, bool) {
	n := float64(len(r.Tiles))
	var sx, sy float64
	for _, t := range r.Tiles {
		sx += float64(t.X)
		sy += float64(t.Y)
	}
	mx, my := sx/n, sy/n

	var cxx, cyy, cxy float64
	for _, t := range r.Tiles {
		dx, dy := float64(t.X)-mx, float64(t.Y)-my
		cxx += dx * dx
		cyy += dy * dy
		cxy += dx * dy
	}
	trace := cxx + cyy
	det := cxx*cyy - cxy*cxy
	disc := trace*trace/4 - det
	if disc < 0 {
		return r, false
	}
	lambda := trace/2 + math.Sqrt(disc)
	angle := -math.Atan2(lambda-cxx, cxy) * 180 / math.Pi
	// keep labels upright
	if a := math.Abs(angle); a > 90 && a < 270 {
		angle += 180
	}

	r.CenterX, r.CenterY, r.Angle = mx, my, angle
	return r, true
}

func (c *Cache) buildLeaderboard() ([]Standing, int) {
	w := c.world
	rows := make(map[core.NationID]*Standing, len(w.Nations))
	ids := w.NationIDs()
	for _, id := range ids {
		rows[id] = &Standing{Nation: id, Techs: len(w.Nations[id].Techs)}
	}

	strength := make(map[core.NationID]float64, len(ids))
	w.EachUnit(func(u *core.Unit) bool {
		row, ok := rows[u.Nation]
		if !ok {
			return true
		}
		stats, skipped := w.EffectiveStats(u)
		for _, err := range skipped {
			c.logger.Debug().Err(err).Str("unit", u.ID).Msg("Skipping tech modifier")
		}
		cost := stats.Int(core.StatCost)
		row.ManpowerUsed += cost
		strength[u.Nation] += float64(cost) + UnitScore(stats)
		return true
	})

	total := 0
	for _, f := range w.Features {
		ft := w.Catalog.FeatureType(f.Type)
		if ft == nil || ft.Manpower <= 0 {
			continue
		}
		total += ft.Manpower
		if tile := w.Board.At(f.Pos); tile != nil {
			if row, ok := rows[tile.Owner]; ok {
				row.ManpowerTotal += ft.Manpower
			}
		}
	}

	out := make([]Standing, 0, len(ids))
	for _, id := range ids {
		row := rows[id]
		row.Strength = int(math.RoundToEven(strength[id]))
		out = append(out, *row)
	}
	return out, total
}

// UnitScore weighs a unit's combat stats for the leaderboard strength
// column, on top of its cost.
func UnitScore(s core.Stats) float64 {
	sup := 0
	if support, err := s.Support(); err == nil {
		sup = int(support.Total())
	}
	return 0.5*float64(s.Int(core.StatStrength)) +
		0.25*float64(s.Int(core.StatArmor)) +
		0.5*float64(sup) +
		0.25*float64(s.Int(core.StatSpeed))
}
