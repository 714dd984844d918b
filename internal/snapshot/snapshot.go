// Package snapshot converts a world to and from its versioned JSON record.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// Version is the record layout written by Encode.
const Version = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrBoardSize          = errors.New("tile count does not match board size")
)

// Snapshot is the serializable form of a core.World.
type Snapshot struct {
	Version   int                        `json:"version"`
	ID        string                     `json:"id"`
	Width     int                        `json:"width"`
	Height    int                        `json:"height"`
	Turn      int                        `json:"turn"`
	Fog       *bool                      `json:"fog_enabled,omitempty"`
	Tiles     []Tile                     `json:"tiles"`
	Units     []Unit                     `json:"units"`
	Features  []Feature                  `json:"features"`
	Arrows    []Arrow                    `json:"arrows"`
	Links     []Link                     `json:"links"`
	Notes     []Note                     `json:"notes"`
	Nations   []Nation                   `json:"nations"`
	Alliances map[string][]core.NationID `json:"alliances,omitempty"`
	Techs     []Tech                     `json:"techs,omitempty"`
}

// Point is a board cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func pointOf(c core.Coordinate) Point { return Point{X: c.X, Y: c.Y} }
func (p Point) coord() core.Coordinate { return core.Coordinate{X: p.X, Y: p.Y} }

// Tile is one board cell in row-major order. A missing visibility decodes as
// hidden.
type Tile struct {
	Terrain    core.Terrain     `json:"terrain"`
	Owner      core.NationID    `json:"owner,omitempty"`
	Visibility *core.Visibility `json:"visibility,omitempty"`
}

type Unit struct {
	ID        string          `json:"id,omitempty"`
	Type      string          `json:"type"`
	Pos       Point           `json:"pos"`
	Nation    core.NationID   `json:"nation"`
	Rotation  int             `json:"rotation,omitempty"`
	Status    core.UnitStatus `json:"status,omitempty"`
	Upgrading bool            `json:"upgrading,omitempty"`
	Cargo     []Unit          `json:"cargo,omitempty"`
}

type Feature struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
	Pos  Point  `json:"pos"`
	Name string `json:"name,omitempty"`
}

// Arrow carries no scope: arrows with a unit id are unit scoped, the rest
// belong to the nation.
type Arrow struct {
	ID     string         `json:"id,omitempty"`
	From   Point          `json:"from"`
	To     Point          `json:"to"`
	Order  core.OrderKind `json:"order"`
	Nation core.NationID  `json:"nation"`
	UnitID string         `json:"unit_id,omitempty"`
}

// Link is a strait or a blockade, told apart by Type.
type Link struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
	A    Point  `json:"a"`
	B    Point  `json:"b"`
}

const (
	linkStrait   = "strait"
	linkBlockade = "blockade"
)

type Note struct {
	ID        string        `json:"id,omitempty"`
	Pos       Point         `json:"pos"`
	Text      string        `json:"text"`
	Color     string        `json:"color,omitempty"`
	FontSize  int           `json:"font_size,omitempty"`
	Author    core.NationID `json:"author,omitempty"`
	Public    bool          `json:"public"`
	Important bool          `json:"important,omitempty"`
}

type Nation struct {
	ID      core.NationID `json:"id"`
	Name    string        `json:"name"`
	Color   string        `json:"color,omitempty"`
	Techs   []string      `json:"techs,omitempty"`
	Special bool          `json:"special,omitempty"`
}

type Tech struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Cost          int            `json:"cost,omitempty"`
	Prerequisites []string       `json:"prerequisites,omitempty"`
	Bonus         core.TechBonus `json:"bonus"`
}

// Encode captures w. Territorial Water is written as Water since it is
// recomputed from ownership on load.
func Encode(w *core.World) *Snapshot {
	fog := w.FogEnabled
	s := &Snapshot{
		Version:   Version,
		ID:        uuid.NewString(),
		Width:     w.Board.W,
		Height:    w.Board.H,
		Turn:      w.Turn,
		Fog:       &fog,
		Tiles:     make([]Tile, len(w.Board.T)),
		Units:     make([]Unit, 0, len(w.Units)),
		Features:  make([]Feature, 0, len(w.Features)),
		Arrows:    make([]Arrow, 0, len(w.Arrows)),
		Links:     make([]Link, 0, len(w.Straits)+len(w.Blockades)),
		Notes:     make([]Note, 0, len(w.Notes)),
		Nations:   make([]Nation, 0, len(w.Nations)),
		Alliances: make(map[string][]core.NationID, len(w.Alliances)),
	}

	for i, t := range w.Board.T {
		terrain := t.Terrain
		if terrain == core.TerrainTerritorialWater {
			terrain = core.TerrainWater
		}
		vis := t.Visibility
		s.Tiles[i] = Tile{Terrain: terrain, Owner: t.Owner, Visibility: &vis}
	}
	for _, u := range w.Units {
		s.Units = append(s.Units, encodeUnit(u))
	}
	for _, f := range w.Features {
		s.Features = append(s.Features, Feature{ID: f.ID, Type: f.Type, Pos: pointOf(f.Pos), Name: f.Name})
	}
	for _, a := range w.Arrows {
		rec := Arrow{ID: a.ID, From: pointOf(a.From), To: pointOf(a.To), Order: a.Order, Nation: a.Nation}
		if a.Scope == core.ScopeUnit {
			rec.UnitID = a.UnitID
		}
		s.Arrows = append(s.Arrows, rec)
	}
	for _, l := range w.Straits {
		s.Links = append(s.Links, encodeLink(l))
	}
	for _, l := range w.Blockades {
		s.Links = append(s.Links, encodeLink(l))
	}
	for _, n := range w.Notes {
		s.Notes = append(s.Notes, Note{
			ID: n.ID, Pos: pointOf(n.Pos), Text: n.Text, Color: n.Color, FontSize: n.FontSize,
			Author: n.Author, Public: n.Public, Important: n.Important,
		})
	}
	for _, id := range w.NationIDs() {
		n := w.Nations[id]
		s.Nations = append(s.Nations, Nation{
			ID: n.ID, Name: n.Name, Color: n.Color, Techs: append([]string(nil), n.Techs...), Special: n.Special,
		})
	}
	for name, members := range w.Alliances {
		s.Alliances[name] = append([]core.NationID(nil), members...)
	}
	if w.Catalog != nil {
		for _, id := range w.Catalog.TechIDs() {
			t := w.Catalog.Techs[id]
			s.Techs = append(s.Techs, Tech{
				ID: t.ID, Name: t.Name, Description: t.Description, Cost: t.Cost,
				Prerequisites: append([]string(nil), t.Prerequisites...), Bonus: t.Bonus,
			})
		}
	}
	return s
}

func encodeUnit(u *core.Unit) Unit {
	rec := Unit{
		ID:        u.ID,
		Type:      u.Key(),
		Pos:       pointOf(u.Pos),
		Nation:    u.Nation,
		Rotation:  u.Rotation,
		Status:    u.Status,
		Upgrading: u.Upgrading,
	}
	for _, c := range u.Cargo {
		rec.Cargo = append(rec.Cargo, encodeUnit(c))
	}
	return rec
}

func encodeLink(l *core.Link) Link {
	typ := linkStrait
	if l.Blockade {
		typ = linkBlockade
	}
	return Link{ID: l.ID, Type: typ, A: pointOf(l.Edge.A), B: pointOf(l.Edge.B)}
}

// Marshal encodes w as indented JSON.
func Marshal(w *core.World) ([]byte, error) {
	data, err := json.MarshalIndent(Encode(w), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Decoder rebuilds worlds against a catalog of unit and feature types.
type Decoder struct {
	catalog *core.Catalog
	logger  zerolog.Logger
}

func NewDecoder(catalog *core.Catalog, logger zerolog.Logger) *Decoder {
	if catalog == nil {
		catalog = core.NewCatalog()
	}
	return &Decoder{
		catalog: catalog,
		logger:  logger.With().Str("component", "Snapshot").Logger(),
	}
}

// Unmarshal parses data and decodes it.
func (d *Decoder) Unmarshal(data []byte) (*core.World, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return d.Decode(&s)
}

// Decode builds a world from s. Unknown terrain falls back to Plains and
// features on terrain they cannot stand on are dropped; both are logged.
// Unknown unit types fail the whole decode.
func (d *Decoder) Decode(s *Snapshot) (*core.World, error) {
	if s.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	if s.Width <= 0 || s.Height <= 0 || len(s.Tiles) != s.Width*s.Height {
		return nil, fmt.Errorf("%w: %dx%d with %d tiles", ErrBoardSize, s.Width, s.Height, len(s.Tiles))
	}

	w := core.NewWorld(s.Width, s.Height, d.worldCatalog(s.Techs))
	if s.Turn > 0 {
		w.Turn = s.Turn
	}
	if s.Fog != nil {
		w.FogEnabled = *s.Fog
	}

	for i, rec := range s.Tiles {
		tile := &w.Board.T[i]
		terrain, err := core.ParseTerrain(string(rec.Terrain))
		if err != nil {
			x, y := w.Board.XY(i)
			d.logger.Warn().Err(err).Int("x", x).Int("y", y).Msg("Unknown terrain, using Plains")
			terrain = core.TerrainPlains
		}
		tile.Terrain = terrain
		tile.Owner = rec.Owner
		tile.Visibility = core.Hidden
		if rec.Visibility != nil {
			tile.Visibility = *rec.Visibility
		}
	}

	for _, rec := range s.Nations {
		w.Nations[rec.ID] = &core.Nation{
			ID: rec.ID, Name: rec.Name, Color: rec.Color,
			Techs: append([]string(nil), rec.Techs...), Special: rec.Special,
		}
	}
	for name, members := range s.Alliances {
		w.Alliances[name] = append([]core.NationID(nil), members...)
	}

	for _, rec := range s.Units {
		u, err := d.decodeUnit(rec, rec.Pos.coord())
		if err != nil {
			return nil, err
		}
		w.Units = append(w.Units, u)
	}

	for _, rec := range s.Features {
		pos := rec.Pos.coord()
		if !w.Board.Contains(pos) {
			d.logger.Warn().Str("feature", rec.Type).Str("pos", pos.String()).Msg("Dropping feature outside the board")
			continue
		}
		if ft := w.Catalog.FeatureType(rec.Type); ft != nil && ft.Naval != w.Board.At(pos).IsNaval() {
			d.logger.Warn().Str("feature", rec.Type).Str("pos", pos.String()).Msg("Dropping feature on incompatible terrain")
			continue
		}
		w.Features = append(w.Features, &core.Feature{ID: idOr(rec.ID), Type: rec.Type, Pos: pos, Name: rec.Name})
	}

	for _, rec := range s.Arrows {
		a := &core.Arrow{
			ID: idOr(rec.ID), From: rec.From.coord(), To: rec.To.coord(),
			Order: rec.Order, Nation: rec.Nation, UnitID: rec.UnitID, Scope: core.ScopeNation,
		}
		if rec.UnitID != "" {
			a.Scope = core.ScopeUnit
		}
		w.Arrows = append(w.Arrows, a)
	}

	for _, rec := range s.Links {
		l := &core.Link{ID: idOr(rec.ID), Edge: core.NewEdge(rec.A.coord(), rec.B.coord())}
		switch rec.Type {
		case linkBlockade:
			l.Blockade = true
			w.Blockades = append(w.Blockades, l)
		case linkStrait, "":
			w.Straits = append(w.Straits, l)
		default:
			d.logger.Warn().Str("type", rec.Type).Msg("Dropping link of unknown type")
		}
	}

	for _, rec := range s.Notes {
		w.Notes = append(w.Notes, &core.Note{
			ID: idOr(rec.ID), Pos: rec.Pos.coord(), Text: rec.Text, Color: rec.Color, FontSize: rec.FontSize,
			Author: rec.Author, Public: rec.Public, Important: rec.Important,
		})
	}

	return w, nil
}

// decodeUnit places carried units on their carrier's cell.
func (d *Decoder) decodeUnit(rec Unit, pos core.Coordinate) (*core.Unit, error) {
	typ, err := d.catalog.UnitType(rec.Type)
	if err != nil {
		return nil, fmt.Errorf("decode unit %s: %w", rec.ID, err)
	}
	status := rec.Status
	if status == "" {
		status = core.StatusActive
	}
	u := &core.Unit{
		ID:        idOr(rec.ID),
		Type:      typ,
		Pos:       pos,
		Nation:    rec.Nation,
		Rotation:  core.NormalizeRotation(rec.Rotation),
		Status:    status,
		Upgrading: rec.Upgrading,
	}
	for _, c := range rec.Cargo {
		cargo, err := d.decodeUnit(c, pos)
		if err != nil {
			return nil, err
		}
		u.Cargo = append(u.Cargo, cargo)
	}
	return u, nil
}

// worldCatalog shares the decoder's unit and feature types and layers the
// saved tech tree over its techs.
func (d *Decoder) worldCatalog(techs []Tech) *core.Catalog {
	c := &core.Catalog{
		UnitTypes:    d.catalog.UnitTypes,
		FeatureTypes: d.catalog.FeatureTypes,
		Techs:        make(map[string]*core.Tech, len(d.catalog.Techs)+len(techs)),
	}
	for id, t := range d.catalog.Techs {
		c.Techs[id] = t
	}
	for _, rec := range techs {
		c.Techs[rec.ID] = &core.Tech{
			ID: rec.ID, Name: rec.Name, Description: rec.Description, Cost: rec.Cost,
			Prerequisites: append([]string(nil), rec.Prerequisites...), Bonus: rec.Bonus,
		}
	}
	return c
}

func idOr(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
