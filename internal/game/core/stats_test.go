package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSupport(t *testing.T) {
	tests := []struct {
		in      string
		want    Support
		wantErr bool
	}{
		{"2x3", Support{Targets: 2, Value: 3}, false},
		{"1X2", Support{Targets: 1, Value: 2}, false},
		{"4", Support{Targets: 1, Value: 4}, false},
		{"", Support{}, false},
		{"ax2", Support{}, true},
		{"many", Support{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSupport(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSupport_Share(t *testing.T) {
	s := Support{Targets: 2, Value: 3}
	assert.Equal(t, 6.0, s.Share(1))
	assert.Equal(t, 3.0, s.Share(2))
	assert.Equal(t, 0.0, s.Share(3), "over-extended support contributes nothing")
	assert.Equal(t, 0.0, s.Share(0))
}

func TestParseModifier(t *testing.T) {
	m, err := ParseModifier("+2")
	require.NoError(t, err)
	assert.Equal(t, Modifier{Op: '+', Value: 2}, m)

	m, err = ParseModifier("-0.5")
	require.NoError(t, err)
	assert.Equal(t, Modifier{Op: '-', Value: -0.5}, m)

	m, err = ParseModifier("=3")
	require.NoError(t, err)
	assert.Equal(t, Modifier{Op: '=', Value: 3}, m)

	for _, bad := range []string{"", "+", "*2", "+x"} {
		_, err := ParseModifier(bad)
		assert.ErrorIs(t, err, ErrInvalidModifier, bad)
	}
}

func TestDeriveStats(t *testing.T) {
	base := StatBlock{StatStrength: "3", StatArmor: "1", StatSupport: "2x1", StatSpeed: "2"}

	t.Run("base only", func(t *testing.T) {
		s, skipped := DeriveStats(StatInputs{Base: base, UnitKey: "infantry", Class: ClassLand})
		assert.Empty(t, skipped)
		assert.Equal(t, 3, s.Int(StatStrength))
		assert.Equal(t, "2x1", s.Raw(StatSupport))
		sup, err := s.Support()
		require.NoError(t, err)
		assert.Equal(t, Support{Targets: 2, Value: 1}, sup)
	})

	t.Run("feature bonus skips compound stats", func(t *testing.T) {
		s, _ := DeriveStats(StatInputs{
			Base:         base,
			FeatureBonus: map[string]float64{StatArmor: 1, StatSupport: 5},
		})
		assert.Equal(t, 2, s.Int(StatArmor))
		assert.Equal(t, 1.0, s.Bonus(StatArmor))
		assert.Equal(t, "2x1", s.Raw(StatSupport))
	})

	t.Run("additive before absolute", func(t *testing.T) {
		s, _ := DeriveStats(StatInputs{
			Base:    base,
			UnitKey: "infantry",
			Class:   ClassLand,
			Techs: []TechBonus{
				{Modifiers: map[string]string{StatSpeed: "=5"}},
				{Modifiers: map[string]string{StatSpeed: "+1", StatStrength: "+1"}},
			},
		})
		assert.Equal(t, 5, s.Int(StatSpeed))
		assert.Equal(t, 4, s.Int(StatStrength))
		assert.Equal(t, "4", s.Raw(StatStrength))
	})

	t.Run("scoped techs", func(t *testing.T) {
		techs := []TechBonus{
			{UnitKeys: []string{"tank"}, Modifiers: map[string]string{StatStrength: "+10"}},
			{UnitClass: ClassNaval, Modifiers: map[string]string{StatStrength: "+20"}},
			{UnitKeys: []string{"infantry"}, UnitClass: ClassLand, Modifiers: map[string]string{StatStrength: "+1"}},
		}
		s, _ := DeriveStats(StatInputs{Base: base, Techs: techs, UnitKey: "infantry", Class: ClassLand})
		assert.Equal(t, 4, s.Int(StatStrength))
	})

	t.Run("bad modifiers are skipped", func(t *testing.T) {
		s, skipped := DeriveStats(StatInputs{
			Base:  base,
			Techs: []TechBonus{{Modifiers: map[string]string{StatStrength: "double", StatArmor: "+1"}}},
		})
		require.Len(t, skipped, 1)
		assert.ErrorIs(t, skipped[0], ErrInvalidModifier)
		assert.Equal(t, 3, s.Int(StatStrength))
		assert.Equal(t, 2, s.Int(StatArmor))
	})

	t.Run("defaults", func(t *testing.T) {
		s, _ := DeriveStats(StatInputs{})
		assert.Equal(t, 1, s.Int(StatStrength))
		assert.Equal(t, 0, s.Int(StatSpeed))
	})

	t.Run("fractional values", func(t *testing.T) {
		s, _ := DeriveStats(StatInputs{
			Base:  StatBlock{StatSpeed: "2"},
			Techs: []TechBonus{{Modifiers: map[string]string{StatSpeed: "+0.5"}}},
		})
		assert.Equal(t, "2.5", s.Raw(StatSpeed))
		assert.Equal(t, 2, s.Int(StatSpeed))
	})
}
