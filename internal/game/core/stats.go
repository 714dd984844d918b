package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Well-known stat keys. Catalogs may declare others; they flow through
// unchanged.
const (
	StatStrength = "str"
	StatArmor    = "arm"
	StatSupport  = "sup"
	StatSpeed    = "spe"
	StatCost     = "cost"
)

// StatBlock is a unit type's declared stats. Values are numbers or compound
// support strings of the form "NxV".
type StatBlock map[string]string

// DefaultStatBlock is used for unit types that do not declare stats.
func DefaultStatBlock() StatBlock {
	return StatBlock{StatStrength: "1", StatArmor: "0", StatSupport: "0", StatSpeed: "0", StatCost: "0"}
}

// Support is a parsed support stat: Value points available to each of up to
// Targets arrows.
type Support struct {
	Targets int
	Value   float64
}

// ParseSupport parses "NxV" or a plain number. A plain number means a single
// target.
func ParseSupport(s string) (Support, error) {
	s = strings.TrimSpace(s)
	if n, v, ok := strings.Cut(strings.ToLower(s), "x"); ok {
		targets, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return Support{}, fmt.Errorf("%w: support %q", ErrInvalidStat, s)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Support{}, fmt.Errorf("%w: support %q", ErrInvalidStat, s)
		}
		return Support{Targets: targets, Value: value}, nil
	}
	if s == "" {
		return Support{}, nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Support{}, fmt.Errorf("%w: support %q", ErrInvalidStat, s)
	}
	return Support{Targets: 1, Value: math.Trunc(value)}, nil
}

// Total is the support pool shared among the issued arrows.
func (s Support) Total() float64 {
	return float64(s.Targets) * s.Value
}

// Share is what each of n arrows of one kind contributes. Issuing more arrows
// than the declared target count forfeits the whole contribution.
func (s Support) Share(n int) float64 {
	if n <= 0 || n > s.Targets {
		return 0
	}
	return s.Total() / float64(n)
}

// Modifier is a parsed tech modifier: '+' or '-' adds, '=' assigns.
type Modifier struct {
	Op    byte
	Value float64
}

// ParseModifier parses strings like "+1", "-0.5" or "=3".
func ParseModifier(s string) (Modifier, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Modifier{}, fmt.Errorf("%w: %q", ErrInvalidModifier, s)
	}
	op := s[0]
	if op != '+' && op != '-' && op != '=' {
		return Modifier{}, fmt.Errorf("%w: %q", ErrInvalidModifier, s)
	}
	v, err := strconv.ParseFloat(s[1:], 64)
	if err != nil {
		return Modifier{}, fmt.Errorf("%w: %q", ErrInvalidModifier, s)
	}
	if op == '-' {
		v = -v
	}
	return Modifier{Op: op, Value: v}, nil
}

// TechBonus is a set of stat modifiers restricted to some unit keys and/or a
// unit class. Empty restrictions match everything.
type TechBonus struct {
	UnitKeys  []string          `yaml:"unit_keys" json:"unit_keys,omitempty"`
	UnitClass UnitClass         `yaml:"unit_class" json:"unit_class,omitempty"`
	Modifiers map[string]string `yaml:"modifiers" json:"modifiers,omitempty"`
}

// AppliesTo reports whether the bonus targets a unit of the given type and class.
func (b TechBonus) AppliesTo(unitKey string, class UnitClass) bool {
	if len(b.UnitKeys) > 0 {
		found := false
		for _, k := range b.UnitKeys {
			if k == unitKey {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return b.UnitClass == "" || b.UnitClass == class
}

// Stats are a unit's effective stats after feature and tech adjustments.
type Stats struct {
	numeric map[string]float64
	raw     map[string]string
	bonus   map[string]float64
}

// StatInputs collects everything effective stats depend on.
type StatInputs struct {
	Base         StatBlock
	FeatureBonus map[string]float64
	Techs        []TechBonus
	UnitKey      string
	Class        UnitClass
}

// DeriveStats computes effective stats. Numeric stats receive the feature
// bonus, then every additive tech modifier, then absolute assignments.
// Compound stats are left untouched. Modifiers that fail to parse are skipped
// and reported in the returned slice.
func DeriveStats(in StatInputs) (Stats, []error) {
	base := in.Base
	if base == nil {
		base = DefaultStatBlock()
	}
	s := Stats{
		numeric: make(map[string]float64, len(base)),
		raw:     make(map[string]string, len(base)),
		bonus:   make(map[string]float64),
	}
	for k, v := range base {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			s.numeric[k] = f
		} else {
			s.raw[k] = v
		}
	}

	for _, k := range sortedKeys(in.FeatureBonus) {
		if _, ok := s.numeric[k]; ok {
			s.numeric[k] += in.FeatureBonus[k]
			s.bonus[k] += in.FeatureBonus[k]
		}
	}

	var skipped []error
	type assignment struct {
		stat  string
		value float64
	}
	var assigns []assignment
	for _, tech := range in.Techs {
		if !tech.AppliesTo(in.UnitKey, in.Class) {
			continue
		}
		for _, stat := range sortedKeys(tech.Modifiers) {
			if _, ok := s.numeric[stat]; !ok {
				continue
			}
			m, err := ParseModifier(tech.Modifiers[stat])
			if err != nil {
				skipped = append(skipped, fmt.Errorf("stat %s: %w", stat, err))
				continue
			}
			if m.Op == '=' {
				assigns = append(assigns, assignment{stat: stat, value: m.Value})
				continue
			}
			s.numeric[stat] += m.Value
			s.bonus[stat] += m.Value
		}
	}
	for _, a := range assigns {
		s.numeric[a.stat] = a.value
	}
	return s, skipped
}

// Float returns a numeric stat, or 0 for missing and compound stats.
func (s Stats) Float(key string) float64 {
	return s.numeric[key]
}

// Int truncates a numeric stat toward zero.
func (s Stats) Int(key string) int {
	return int(s.numeric[key])
}

// Bonus is the additive adjustment applied on top of the base value.
func (s Stats) Bonus(key string) float64 {
	return s.bonus[key]
}

// Raw returns the stat as a string: whole numbers without a fraction,
// compound values verbatim.
func (s Stats) Raw(key string) string {
	if v, ok := s.numeric[key]; ok {
		return formatStat(v)
	}
	return s.raw[key]
}

// Support parses the effective support stat.
func (s Stats) Support() (Support, error) {
	if v, ok := s.numeric[StatSupport]; ok {
		return Support{Targets: 1, Value: math.Trunc(v)}, nil
	}
	raw, ok := s.raw[StatSupport]
	if !ok {
		return Support{}, nil
	}
	return ParseSupport(raw)
}

func formatStat(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
