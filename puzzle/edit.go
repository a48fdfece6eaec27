package puzzle

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Change lists what a mutation touched: square indices whose state differs
// and the numbers of clues that are new or differ, both as they stand after
// the call. RemovedAcross and RemovedDown hold the numbers that existed
// before the call and no longer do. Hosts use it to decide what to redraw.
type Change struct {
	Squares       []int `json:"squares"`
	Across        []int `json:"across"`
	Down          []int `json:"down"`
	RemovedAcross []int `json:"removed_across,omitempty"`
	RemovedDown   []int `json:"removed_down,omitempty"`
}

// Empty reports whether nothing changed.
func (c Change) Empty() bool {
	return len(c.Squares) == 0 && len(c.Across) == 0 && len(c.Down) == 0 &&
		len(c.RemovedAcross) == 0 && len(c.RemovedDown) == 0
}

type snapshot struct {
	squares []Square
	across  []Clue
	down    []Clue
}

func (p *Puzzle) snapshot() snapshot {
	return snapshot{
		squares: slices.Clone(p.Squares),
		across:  p.Across.Clues(),
		down:    p.Down.Clues(),
	}
}

func (p *Puzzle) changesSince(s snapshot) Change {
	var c Change
	for i, sq := range p.Squares {
		if i >= len(s.squares) || sq != s.squares[i] {
			c.Squares = append(c.Squares, i)
		}
	}
	c.Across, c.RemovedAcross = changedClues(s.across, p.Across)
	c.Down, c.RemovedDown = changedClues(s.down, p.Down)
	return c
}

// changedClues compares a list against its earlier copy. It returns the
// numbers that are new or differ, then the numbers that are gone, both in
// numbering order.
func changedClues(before []Clue, after *ClueList) (changed, removed []int) {
	old := make(map[int]Clue, len(before))
	for _, c := range before {
		old[c.Num] = c
	}
	for _, c := range after.clues {
		o, ok := old[c.Num]
		if !ok || o.Text != c.Text || o.Answer != c.Answer || !slices.Equal(o.Squares, c.Squares) {
			changed = append(changed, c.Num)
		}
	}
	for _, c := range before {
		if _, ok := after.Lookup(c.Num); !ok {
			removed = append(removed, c.Num)
		}
	}
	return changed, removed
}

// Select focuses a square. Selecting the focused square again flips between
// across and down entry.
func (p *Puzzle) Select(index int) (Selection, error) {
	if err := p.checkIndex(index); err != nil {
		return Selection{}, err
	}
	switch {
	case p.Current == nil:
		p.Current = &Selection{Index: index}
	case p.Current.Index == index:
		p.Current.Vertical = !p.Current.Vertical
	default:
		p.Current.Index = index
	}
	p.refreshSelection()
	return *p.Current, nil
}

func (p *Puzzle) refreshSelection() {
	if p.Current == nil {
		return
	}
	sq := &p.Squares[p.Current.Index]
	p.Current.AcrossNum, p.Current.DownNum = sq.AcrossClueNum, sq.DownClueNum
}

// NormalizeValue upper-cases a square value and checks it is one letter or
// empty.
func NormalizeValue(value string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		return "", nil
	}
	r, _ := utf8.DecodeRuneInString(v)
	if utf8.RuneCountInString(v) != 1 || !unicode.IsLetter(r) {
		return "", fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}
	return v, nil
}

// SetValue writes a letter into a square, or erases it with "", and patches
// the answers of the two clues running through it.
func (p *Puzzle) SetValue(index int, value string) (Change, error) {
	if err := p.checkIndex(index); err != nil {
		return Change{}, err
	}
	sq := &p.Squares[index]
	if sq.Type == Spacer {
		return Change{}, fmt.Errorf("%w: %d", ErrSpacer, index)
	}
	v, err := NormalizeValue(value)
	if err != nil {
		return Change{}, err
	}
	if sq.Value == v {
		return Change{}, nil
	}
	sq.Value = v

	across := p.Across.At(p.Across.mustPos(sq.AcrossClueNum))
	down := p.Down.At(p.Down.mustPos(sq.DownClueNum))
	across.Answer = p.answerOf(across.Squares)
	down.Answer = p.answerOf(down.Squares)
	return Change{Squares: []int{index}, Across: []int{across.Num}, Down: []int{down.Num}}, nil
}

func (p *Puzzle) answerOf(squares []int) string {
	var b strings.Builder
	for _, i := range squares {
		b.WriteString(p.Squares[i].char())
	}
	return b.String()
}

// ToggleOverlay sets an overlay on a letter square, or removes it when the
// square already carries that overlay.
func (p *Puzzle) ToggleOverlay(index int, o Overlay) (Change, error) {
	if err := p.checkIndex(index); err != nil {
		return Change{}, err
	}
	sq := &p.Squares[index]
	if sq.Type == Spacer {
		return Change{}, fmt.Errorf("%w: %d", ErrSpacer, index)
	}
	if sq.Overlay == o {
		o = NoOverlay
	}
	if sq.Overlay == o {
		return Change{}, nil
	}
	sq.Overlay = o
	return Change{Squares: []int{index}}, nil
}

// SetClueText replaces the text of clue num in direction d.
func (p *Puzzle) SetClueText(d Direction, num int, text string) (Change, error) {
	c, ok := p.Clues(d).Lookup(num)
	if !ok {
		return Change{}, fmt.Errorf("%w: %d %s", ErrNoClue, num, d)
	}
	if c.Text == text {
		return Change{}, nil
	}
	c.Text = text
	if d == Down {
		return Change{Down: []int{num}}, nil
	}
	return Change{Across: []int{num}}, nil
}

// Clear turns every square back into a blank letter and drops all clue text.
func (p *Puzzle) Clear() Change {
	before := p.snapshot()
	for i := range p.Squares {
		p.Squares[i] = Square{Index: i, Type: Letter}
	}
	p.Across, p.Down = NewClueList(), NewClueList()
	p.Current = nil
	p.Number()
	return p.changesSince(before)
}
