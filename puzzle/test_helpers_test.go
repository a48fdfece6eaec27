package puzzle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// fromRows builds a puzzle from a picture of the grid: '#' is a spacer,
// '.' a blank letter square, anything else a filled letter.
func fromRows(t *testing.T, rows ...string) *Puzzle {
	t.Helper()
	doc := Document{Width: len(rows[0]), Height: len(rows), Answers: []string{}}
	for r, row := range rows {
		require.Len(t, row, doc.Width, "row %d", r)
		for c, ch := range row {
			i := r*doc.Width + c
			switch ch {
			case '#':
				doc.Spacers = append(doc.Spacers, i)
			case '.':
				doc.Answers = append(doc.Answers, "")
			default:
				doc.Answers = append(doc.Answers, string(ch))
			}
		}
	}
	p, err := Build(doc)
	require.NoError(t, err)
	return p
}

// freshlyNumbered numbers a copy of p's squares from empty clue lists.
func freshlyNumbered(t *testing.T, p *Puzzle) *Puzzle {
	t.Helper()
	q, err := New(p.Width, p.Height)
	require.NoError(t, err)
	copy(q.Squares, p.Squares)
	q.Number()
	return q
}

// shape strips clue text so lists can be compared structurally.
func shape(l *ClueList) []Clue {
	out := l.Clues()
	for i := range out {
		out[i].Text = ""
	}
	return out
}

// requireConsistent checks the structural invariants that every mutation
// must preserve.
func requireConsistent(t *testing.T, p *Puzzle) {
	t.Helper()
	q := freshlyNumbered(t, p)
	require.Equal(t, shape(q.Across), shape(p.Across), "across shape")
	require.Equal(t, shape(q.Down), shape(p.Down), "down shape")
	require.Equal(t, q.Squares, p.Squares, "square numbering")

	for _, d := range []Direction{Across, Down} {
		l := p.Clues(d)
		for i := 0; i < l.Len(); i++ {
			c := l.At(i)
			runes := []rune(c.Answer)
			require.Len(t, runes, len(c.Squares), "%s %d", d, c.Num)
			for k, sq := range c.Squares {
				require.Equal(t, p.Squares[sq].char(), string(runes[k]), "%s %d square %d", d, c.Num, sq)
			}
			got, ok := l.Lookup(c.Num)
			require.True(t, ok)
			require.Same(t, c, got)
		}
	}
}

// labelClues gives every clue a distinct text.
func labelClues(p *Puzzle) {
	for _, d := range []Direction{Across, Down} {
		l := p.Clues(d)
		for i := 0; i < l.Len(); i++ {
			c := l.At(i)
			c.Text = fmt.Sprintf("%s-%d", d, c.Num)
		}
	}
}
