// Package catalog loads unit types, feature types and the tech tree from YAML.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// File is the YAML layout. Unit and feature types are grouped by category;
// categories only organise the file and are not kept.
type File struct {
	UnitTypes    map[string]map[string]UnitTypeDef    `yaml:"unit_types"`
	FeatureTypes map[string]map[string]FeatureTypeDef `yaml:"feature_types"`
	Techs        map[string]TechDef                   `yaml:"techs"`
}

type UnitTypeDef struct {
	Name           string         `yaml:"name"`
	Class          core.UnitClass `yaml:"class"`
	Weight         float64        `yaml:"weight"`
	WeightCapacity float64        `yaml:"weight_capacity"`
	MaxUnits       int            `yaml:"max_units"`
	LoadCost       *float64       `yaml:"load_cost"`
	Stats          map[string]any `yaml:"stats"`
	Grid           [][]int        `yaml:"grid"`
}

type FeatureTypeDef struct {
	Name     string             `yaml:"name"`
	Naval    bool               `yaml:"naval"`
	Bonuses  map[string]float64 `yaml:"bonuses"`
	Vision   bool               `yaml:"vision"`
	Manpower int                `yaml:"manpower"`
}

type TechDef struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	Cost          int            `yaml:"cost"`
	Prerequisites []string       `yaml:"prerequisites"`
	Bonus         core.TechBonus `yaml:"bonus"`
}

// Default returns a fresh copy of the built-in catalog.
func Default() (*core.Catalog, error) {
	c := core.NewCatalog()
	if err := Overlay(c, defaultYAML); err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
}

// Load returns the built-in catalog with the YAML file at path laid over
// it. An empty path yields the built-in catalog alone.
func Load(path string) (*core.Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if err := Overlay(c, data); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML alone.
func Parse(data []byte) (*core.Catalog, error) {
	c := core.NewCatalog()
	if err := Overlay(c, data); err != nil {
		return nil, err
	}
	return c, nil
}

func (f *File) build() (*core.Catalog, error) {
	out := core.NewCatalog()

	for _, category := range sortedKeys(f.UnitTypes) {
		for _, key := range sortedKeys(f.UnitTypes[category]) {
			t, err := f.UnitTypes[category][key].unitType(key)
			if err != nil {
				return nil, err
			}
			out.UnitTypes[key] = t
		}
	}
	for _, category := range sortedKeys(f.FeatureTypes) {
		for key, def := range f.FeatureTypes[category] {
			out.FeatureTypes[key] = def.featureType(key)
		}
	}
	for id, def := range f.Techs {
		out.Techs[id] = &core.Tech{
			ID:            id,
			Name:          def.Name,
			Description:   def.Description,
			Cost:          def.Cost,
			Prerequisites: def.Prerequisites,
			Bonus:         def.Bonus,
		}
	}
	return out, nil
}

// Overlay adds the entries of data to c, replacing entries with the same
// key. c is left untouched when data is invalid.
func Overlay(c *core.Catalog, data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	parsed, err := f.build()
	if err != nil {
		return err
	}
	for id, t := range parsed.Techs {
		for _, pre := range t.Prerequisites {
			_, inFile := parsed.Techs[pre]
			_, inBase := c.Techs[pre]
			if !inFile && !inBase {
				return fmt.Errorf("%w: tech %q requires unknown tech %q", ErrInvalidCatalog, id, pre)
			}
		}
	}
	for k, v := range parsed.UnitTypes {
		c.UnitTypes[k] = v
	}
	for k, v := range parsed.FeatureTypes {
		c.FeatureTypes[k] = v
	}
	for k, v := range parsed.Techs {
		c.Techs[k] = v
	}
	return nil
}

// unitType fills in the center-only template and the default stats for
// whatever the definition leaves out.
func (d UnitTypeDef) unitType(key string) (*core.UnitType, error) {
	switch d.Class {
	case core.ClassLand, core.ClassNaval, core.ClassAir:
	case "":
		d.Class = core.ClassLand
	default:
		return nil, fmt.Errorf("%w: unit %q has unknown class %q", ErrInvalidCatalog, key, d.Class)
	}

	t := &core.UnitType{
		Key:            key,
		Name:           d.Name,
		Class:          d.Class,
		Weight:         d.Weight,
		WeightCapacity: d.WeightCapacity,
		MaxUnits:       d.MaxUnits,
		LoadCost:       d.LoadCost,
		Stats:          core.DefaultStatBlock(),
		Template:       core.DefaultTemplate(),
	}
	if t.Name == "" {
		t.Name = key
	}
	for stat, v := range d.Stats {
		t.Stats[stat] = fmt.Sprint(v)
	}

	if d.Grid != nil {
		grid, err := parseGrid(d.Grid)
		if err != nil {
			return nil, fmt.Errorf("%w: unit %q: %v", ErrInvalidCatalog, key, err)
		}
		t.Template = grid
	}
	return t, nil
}

func parseGrid(rows [][]int) (core.Template, error) {
	var t core.Template
	if len(rows) != core.TemplateSize {
		return t, fmt.Errorf("grid has %d rows, want %d", len(rows), core.TemplateSize)
	}
	for r, row := range rows {
		if len(row) != core.TemplateSize {
			return t, fmt.Errorf("grid row %d has %d cells, want %d", r, len(row), core.TemplateSize)
		}
		for c, v := range row {
			switch v {
			case core.CellBlocked, core.CellMove, core.CellSupport, core.CellAttack, core.CellSupportOnly:
			case core.CellCenter:
				if r != core.TemplateSize/2 || c != core.TemplateSize/2 {
					return t, fmt.Errorf("center value at row %d col %d", r, c)
				}
			default:
				return t, fmt.Errorf("invalid cell value %d at row %d col %d", v, r, c)
			}
			t[r][c] = v
		}
	}
	t[core.TemplateSize/2][core.TemplateSize/2] = core.CellCenter
	return t, nil
}

func (d FeatureTypeDef) featureType(key string) *core.FeatureType {
	ft := &core.FeatureType{
		Key:      key,
		Name:     d.Name,
		Naval:    d.Naval,
		Bonuses:  d.Bonuses,
		Vision:   d.Vision,
		Manpower: d.Manpower,
	}
	if ft.Name == "" {
		ft.Name = key
	}
	if ft.Bonuses == nil {
		ft.Bonuses = map[string]float64{}
	}
	return ft
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
