package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCoordinate(t *testing.T) {
	c := NewCoordinate(3, 5)
	assert.Equal(t, 3, c.X)
	assert.Equal(t, 5, c.Y)
}

func TestCoordinate_FromIndex(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		width    int
		expected Coordinate
	}{
		{"TopLeft", 0, 10, Coordinate{0, 0}},
		{"TopRight", 9, 10, Coordinate{9, 0}},
		{"SecondRow", 10, 10, Coordinate{0, 1}},
		{"Middle", 55, 10, Coordinate{5, 5}},
		{"BottomRight", 99, 10, Coordinate{9, 9}},
		{"SmallBoard", 7, 4, Coordinate{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromIndex(tt.index, tt.width)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCoordinate_ToIndex(t *testing.T) {
	tests := []struct {
		name     string
		coord    Coordinate
		width    int
		expected int
	}{
		{"TopLeft", Coordinate{0, 0}, 10, 0},
		{"TopRight", Coordinate{9, 0}, 10, 9},
		{"SecondRow", Coordinate{0, 1}, 10, 10},
		{"Middle", Coordinate{5, 5}, 10, 55},
		{"BottomRight", Coordinate{9, 9}, 10, 99},
		{"SmallBoard", Coordinate{3, 1}, 4, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.coord.ToIndex(tt.width)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCoordinate_RoundTrip(t *testing.T) {
	// Test that FromIndex and ToIndex are inverses
	width := 10
	for i := 0; i < 100; i++ {
		coord := FromIndex(i, width)
		index := coord.ToIndex(width)
		assert.Equal(t, i, index, "Round trip failed for index %d", i)
	}
}

func TestCoordinate_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		coord  Coordinate
		width  int
		height int
		valid  bool
	}{
		{"Valid_Origin", Coordinate{0, 0}, 10, 10, true},
		{"Valid_Middle", Coordinate{5, 5}, 10, 10, true},
		{"Valid_Edge", Coordinate{9, 9}, 10, 10, true},
		{"Invalid_NegativeX", Coordinate{-1, 5}, 10, 10, false},
		{"Invalid_NegativeY", Coordinate{5, -1}, 10, 10, false},
		{"Invalid_TooLargeX", Coordinate{10, 5}, 10, 10, false},
		{"Invalid_TooLargeY", Coordinate{5, 10}, 10, 10, false},
		{"Invalid_BothNegative", Coordinate{-1, -1}, 10, 10, false},
		{"Invalid_BothTooLarge", Coordinate{10, 10}, 10, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.coord.IsValid(tt.width, tt.height)
			assert.Equal(t, tt.valid, result)
		})
	}
}

func TestCoordinate_DistanceTo(t *testing.T) {
	tests := []struct {
		name     string
		from     Coordinate
		to       Coordinate
		expected int
	}{
		{"Same", Coordinate{5, 5}, Coordinate{5, 5}, 0},
		{"Adjacent_Horizontal", Coordinate{5, 5}, Coordinate{6, 5}, 1},
		{"Adjacent_Vertical", Coordinate{5, 5}, Coordinate{5, 6}, 1},
		{"Diagonal", Coordinate{0, 0}, Coordinate{1, 1}, 2},
		{"Far", Coordinate{0, 0}, Coordinate{5, 7}, 12},
		{"Negative", Coordinate{-2, -3}, Coordinate{2, 3}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.from.DistanceTo(tt.to)
			assert.Equal(t, tt.expected, result)
			// Distance should be symmetric
			reverse := tt.to.DistanceTo(tt.from)
			assert.Equal(t, tt.expected, reverse, "Distance not symmetric")
		})
	}
}
func TestCoordinate_Neighbors(t *testing.T) {
	c := Coordinate{5, 5}
	neighbors := c.Neighbors()
	
	assert.Len(t, neighbors, 4)
	assert.Contains(t, neighbors, Coordinate{5, 4}) // North
	assert.Contains(t, neighbors, Coordinate{6, 5}) // East
	assert.Contains(t, neighbors, Coordinate{5, 6}) // South
	assert.Contains(t, neighbors, Coordinate{4, 5}) // West
}

func TestCoordinate_Add(t *testing.T) {
	c1 := Coordinate{3, 4}
	c2 := Coordinate{2, -1}
	result := c1.Add(c2)
	assert.Equal(t, Coordinate{5, 3}, result)
	
	// Original should be unchanged
	assert.Equal(t, Coordinate{3, 4}, c1)
	assert.Equal(t, Coordinate{2, -1}, c2)
}

func TestCoordinate_Sub(t *testing.T) {
	c1 := Coordinate{5, 3}
	c2 := Coordinate{2, -1}
	result := c1.Sub(c2)
	assert.Equal(t, Coordinate{3, 4}, result)
	
	// Original should be unchanged
	assert.Equal(t, Coordinate{5, 3}, c1)
	assert.Equal(t, Coordinate{2, -1}, c2)
}

func TestCoordinate_String(t *testing.T) {
	tests := []struct {
		coord    Coordinate
		expected string
	}{
		{Coordinate{0, 0}, "(0,0)"},
		{Coordinate{5, 7}, "(5,7)"},
		{Coordinate{-1, -2}, "(-1,-2)"},
		{Coordinate{100, 200}, "(100,200)"},
	}

	for _, tt := range tests {
		result := tt.coord.String()
		assert.Equal(t, tt.expected, result)
	}
}

func TestCoordinate_ComparableAsMapKey(t *testing.T) {
	// Test that Coordinate can be used as a map key
	m := make(map[Coordinate]string)
	
	c1 := Coordinate{5, 5}
	c2 := Coordinate{5, 5}
	c3 := Coordinate{6, 5}
	
	m[c1] = "first"
	m[c3] = "third"
	
	// Same coordinates should map to same key
	assert.Equal(t, "first", m[c2])
	assert.Equal(t, "third", m[c3])
	assert.Len(t, m, 2)
}

func TestCoordinate_ChebyshevTo(t *testing.T) {
	assert.Equal(t, 0, Coordinate{2, 2}.ChebyshevTo(Coordinate{2, 2}))
	assert.Equal(t, 1, Coordinate{2, 2}.ChebyshevTo(Coordinate{3, 3}))
	assert.Equal(t, 2, Coordinate{0, 0}.ChebyshevTo(Coordinate{-2, 1}))
}

func TestCoordinate_Box(t *testing.T) {
	box := Coordinate{1, 1}.Box(1)
	assert.Len(t, box, 9)
	assert.Contains(t, box, Coordinate{0, 0})
	assert.Contains(t, box, Coordinate{1, 1})
	assert.Contains(t, box, Coordinate{2, 2})

	assert.Len(t, Coordinate{0, 0}.Box(2), 25)
}

func TestEdge_Unordered(t *testing.T) {
	a, b := Coordinate{3, 1}, Coordinate{1, 4}
	assert.Equal(t, NewEdge(a, b), NewEdge(b, a))

	other, ok := NewEdge(a, b).Other(a)
	assert.True(t, ok)
	assert.Equal(t, b, other)

	_, ok = NewEdge(a, b).Other(Coordinate{0, 0})
	assert.False(t, ok)
}
