package command

import "github.com/mitchelldurbincs/DiploStrat/internal/game/core"

// SetProperty assigns a typed field. Old is captured when the command is
// built.
type SetProperty[T comparable] struct {
	Label string
	Field *T
	Old   T
	New   T
	Flags Dirty
}

// NewSetProperty captures the current value of field and prepares to set it
// to value.
func NewSetProperty[T comparable](label string, field *T, value T, flags Dirty) *SetProperty[T] {
	return &SetProperty[T]{Label: label, Field: field, Old: *field, New: value, Flags: flags}
}

func (s *SetProperty[T]) Execute(*core.World) { *s.Field = s.New }
func (s *SetProperty[T]) Undo(*core.World)    { *s.Field = s.Old }
func (s *SetProperty[T]) Name() string        { return "set " + s.Label }
func (s *SetProperty[T]) Dirty() Dirty        { return s.Flags }

// SetUnitStatus changes a unit's readiness flag.
func SetUnitStatus(u *core.Unit, status core.UnitStatus) *SetProperty[core.UnitStatus] {
	return NewSetProperty("status", &u.Status, status, DirtyNone)
}

// SetUpgrading toggles a unit's upgrade flag.
func SetUpgrading(u *core.Unit, upgrading bool) *SetProperty[bool] {
	return NewSetProperty("upgrading", &u.Upgrading, upgrading, DirtyNone)
}

// SetNationTechs replaces a nation's researched techs.
func SetNationTechs(n *core.Nation, techs []string) Action {
	return &setTechs{nation: n, old: n.Techs, new: techs}
}

type setTechs struct {
	nation   *core.Nation
	old, new []string
}

func (s *setTechs) Execute(*core.World) { s.nation.Techs = s.new }
func (s *setTechs) Undo(*core.World)    { s.nation.Techs = s.old }
func (s *setTechs) Name() string        { return "set techs" }
func (s *setTechs) Dirty() Dirty        { return DirtyOrders | DirtyTerritory }

// RotateUnit turns a unit clockwise by Step degrees.
type RotateUnit struct {
	Unit *core.Unit
	Step int
}

func NewRotateUnit(u *core.Unit) *RotateUnit {
	return &RotateUnit{Unit: u, Step: 90}
}

func (r *RotateUnit) Execute(*core.World) {
	r.Unit.Rotation = core.NormalizeRotation(r.Unit.Rotation + r.Step)
}

func (r *RotateUnit) Undo(*core.World) {
	r.Unit.Rotation = core.NormalizeRotation(r.Unit.Rotation - r.Step)
}

func (r *RotateUnit) Name() string { return "rotate unit" }
func (r *RotateUnit) Dirty() Dirty { return DirtyFog | DirtyOrders }

// ChangeFeatureType swaps the type key of a feature, e.g. city to a_city.
type ChangeFeatureType struct {
	Feature  *core.Feature
	Old, New string
}

func NewChangeFeatureType(f *core.Feature, typ string) *ChangeFeatureType {
	return &ChangeFeatureType{Feature: f, Old: f.Type, New: typ}
}

func (c *ChangeFeatureType) Execute(*core.World) { c.Feature.Type = c.New }
func (c *ChangeFeatureType) Undo(*core.World)    { c.Feature.Type = c.Old }
func (c *ChangeFeatureType) Name() string        { return "change feature type" }
func (c *ChangeFeatureType) Dirty() Dirty        { return DirtyTerritory | DirtyFog | DirtyOrders }
