package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPrevIndex_Wraps(t *testing.T) {
	p, err := New(4, 4)
	require.NoError(t, err)

	assert.Equal(t, 0, p.NextIndex(15, false, false))
	assert.Equal(t, 15, p.PrevIndex(0, false, false))
	assert.Equal(t, 6, p.NextIndex(5, false, false))
	assert.Equal(t, 9, p.NextIndex(5, true, false))
	assert.Equal(t, 1, p.NextIndex(13, true, false))
	assert.Equal(t, 14, p.PrevIndex(2, true, false))
}

func TestNextPrevIndex_SkipSpacers(t *testing.T) {
	p := fromRows(t,
		"A#",
		"#B",
	)

	assert.Equal(t, 3, p.NextIndex(0, false, true))
	assert.Equal(t, 0, p.NextIndex(3, false, true))
	assert.Equal(t, 0, p.PrevIndex(3, false, true))
	assert.Equal(t, 1, p.NextIndex(0, false, false))

	// Column 0 only holds square 0, so vertical stepping comes back to it.
	assert.Equal(t, 0, p.NextIndex(0, true, true))
}

func TestNextIndex_AllSpacers(t *testing.T) {
	p := fromRows(t,
		"###",
		"###",
	)

	assert.Equal(t, 2, p.NextIndex(2, false, true))
	assert.Equal(t, 2, p.PrevIndex(2, true, true))
	assert.Equal(t, p.Len(), p.FirstLetterIndex())
}

func TestRunPredicates(t *testing.T) {
	p := fromRows(t,
		"..#",
		"...",
		"#..",
	)

	assert.True(t, p.IsAcrossStart(0))
	assert.False(t, p.IsAcrossStart(1))
	assert.True(t, p.IsAcrossEnd(1))
	assert.False(t, p.IsAcrossStart(2))
	assert.False(t, p.IsAcrossEnd(2))
	assert.True(t, p.IsAcrossStart(7))
	assert.True(t, p.IsAcrossEnd(8))

	assert.True(t, p.IsDownStart(5))
	assert.False(t, p.IsDownStart(4))
	assert.True(t, p.IsDownEnd(3))
	assert.True(t, p.IsDownEnd(7))
	assert.False(t, p.IsDownEnd(4))

	assert.True(t, p.IsPuzzleStart(0))
	assert.True(t, p.IsPuzzleStart(-1))
	assert.False(t, p.IsPuzzleStart(1))
	assert.True(t, p.IsPuzzleEnd(8))
	assert.False(t, p.IsPuzzleEnd(7))
	assert.Equal(t, 0, p.FirstLetterIndex())
}

func TestFirstLetterIndex_SkipsLeadingSpacers(t *testing.T) {
	p := fromRows(t,
		"##.",
		".##",
	)
	assert.Equal(t, 2, p.FirstLetterIndex())
}

func TestReflect(t *testing.T) {
	p, err := New(5, 3)
	require.NoError(t, err)

	for i := 0; i < p.Len(); i++ {
		assert.Equal(t, i, p.Reflect(p.Reflect(i)))
	}
	assert.Equal(t, 14, p.Reflect(0))
	assert.Equal(t, 7, p.Reflect(7))
	assert.Equal(t, 2, p.RowOf(13))
	assert.Equal(t, 3, p.ColOf(13))
}
