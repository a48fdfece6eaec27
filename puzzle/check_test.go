package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicates(t *testing.T) {
	p := fromRows(t,
		"AB",
		"AB",
	)

	assert.Equal(t, []Duplicate{{
		Answer: "AB",
		Clues:  []ClueRef{{Direction: Across, Num: 1}, {Direction: Across, Num: 3}},
	}}, p.Duplicates())

	_, err := p.SetValue(3, "")
	require.NoError(t, err)
	assert.Empty(t, p.Duplicates())
}

func TestDuplicates_IgnoresSingleLetters(t *testing.T) {
	p := fromRows(t,
		"I#",
		"#I",
	)
	assert.Empty(t, p.Duplicates())
}

func TestStats(t *testing.T) {
	p := fromRows(t,
		"AB",
		".B",
	)
	assert.Equal(t, Stats{Words: 4, Blocks: 0, Letters: 4, Filled: 3, AverageLength: 2}, p.Stats())

	q := fromRows(t,
		"##",
		"##",
	)
	assert.Equal(t, Stats{Blocks: 4}, q.Stats())
}

func TestSymmetry(t *testing.T) {
	p := fromRows(t,
		"#..",
		"...",
		"...",
	)
	assert.Equal(t, []int{0}, p.AsymmetricSquares())
	assert.False(t, p.Symmetric())

	q := fromRows(t,
		"#..",
		"...",
		"..#",
	)
	assert.True(t, q.Symmetric())
}

func TestComponents(t *testing.T) {
	p := fromRows(t,
		"..#..",
		"..#..",
		"#####",
		"..#..",
		"..#..",
	)
	assert.Equal(t, [][]int{
		{0, 1, 5, 6},
		{3, 4, 8, 9},
		{15, 16, 20, 21},
		{18, 19, 23, 24},
	}, p.Components())
	assert.False(t, p.Connected())

	_, err := p.ToggleType(12)
	require.NoError(t, err)
	_, err = p.ToggleType(7)
	require.NoError(t, err)
	_, err = p.ToggleType(11)
	require.NoError(t, err)
	assert.True(t, p.Connected())
}

func TestComponents_Degenerate(t *testing.T) {
	p := fromRows(t,
		"##",
		"##",
	)
	assert.Empty(t, p.Components())
	assert.True(t, p.Connected())

	q := fromRows(t, "A")
	assert.Equal(t, [][]int{{0}}, q.Components())
}

func TestCheck(t *testing.T) {
	p := fromRows(t,
		"I#",
		"#I",
	)
	r := p.Check()
	assert.True(t, r.Symmetric)
	assert.False(t, r.Connected)
	assert.Equal(t, 2, r.Components)
	assert.Empty(t, r.Duplicates)
	assert.Equal(t, 2, r.Stats.Letters)
}
