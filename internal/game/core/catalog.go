package core

import (
	"fmt"
	"sort"
)

// Tech is a node of the tech tree.
type Tech struct {
	ID            string
	Name          string
	Description   string
	Cost          int
	Prerequisites []string
	Bonus         TechBonus
}

// Catalog holds every type definition the rules consult: unit types, feature
// types and the tech tree.
type Catalog struct {
	UnitTypes    map[string]*UnitType
	FeatureTypes map[string]*FeatureType
	Techs        map[string]*Tech
}

func NewCatalog() *Catalog {
	return &Catalog{
		UnitTypes:    make(map[string]*UnitType),
		FeatureTypes: make(map[string]*FeatureType),
		Techs:        make(map[string]*Tech),
	}
}

// UnitType looks up a unit type by key.
func (c *Catalog) UnitType(key string) (*UnitType, error) {
	if t, ok := c.UnitTypes[key]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownUnitType, key)
}

// FeatureType returns the feature definition, or nil for unknown keys.
func (c *Catalog) FeatureType(key string) *FeatureType {
	return c.FeatureTypes[key]
}

// TechIDs returns the tech ids sorted.
func (c *Catalog) TechIDs() []string {
	ids := make([]string, 0, len(c.Techs))
	for id := range c.Techs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nation is a playable (or special) faction.
type Nation struct {
	ID      NationID
	Name    string
	Color   string
	Techs   []string
	Special bool
}

// HasTech reports whether the nation researched the tech.
func (n *Nation) HasTech(id string) bool {
	for _, t := range n.Techs {
		if t == id {
			return true
		}
	}
	return false
}
