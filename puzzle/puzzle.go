// Package puzzle implements the grid engine of the crossword builder: the
// square model, standard crossword numbering, clue-list maintenance when
// squares are toggled between letters and spacers, and read-only navigation
// helpers used by the editing surface.
//
// A Puzzle is not safe for concurrent use. Callers serialize mutations; read
// queries may run concurrently with each other but not with a mutation.
package puzzle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize      = errors.New("puzzle: width and height must be positive")
	ErrOutOfRange       = errors.New("puzzle: square index out of range")
	ErrSpacer           = errors.New("puzzle: square is a spacer")
	ErrInvalidValue     = errors.New("puzzle: value must be a single letter or empty")
	ErrNoClue           = errors.New("puzzle: no clue with that number")
	ErrShortAnswers     = errors.New("puzzle: fewer answers than letter squares")
	ErrUnknownDirection = errors.New("puzzle: unknown direction")
	ErrUnknownOverlay   = errors.New("puzzle: unknown overlay")
)

// SquareType tells letter squares from spacers (black squares).
type SquareType int

const (
	Letter SquareType = iota
	Spacer
)

func (t SquareType) String() string {
	if t == Spacer {
		return "spacer"
	}
	return "letter"
}

func (t SquareType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *SquareType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "letter":
		*t = Letter
	case "spacer":
		*t = Spacer
	default:
		return fmt.Errorf("puzzle: unknown square type %q", b)
	}
	return nil
}

// Overlay is a decoration drawn on a letter square.
type Overlay int

const (
	NoOverlay Overlay = iota
	Circle
	Shade
)

func (o Overlay) String() string {
	switch o {
	case Circle:
		return "circle"
	case Shade:
		return "shade"
	default:
		return "none"
	}
}

// ParseOverlay converts "circle", "shade" or "none".
func ParseOverlay(s string) (Overlay, error) {
	switch s {
	case "circle":
		return Circle, nil
	case "shade":
		return Shade, nil
	case "none", "":
		return NoOverlay, nil
	}
	return NoOverlay, fmt.Errorf("%w: %q", ErrUnknownOverlay, s)
}

func (o Overlay) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Overlay) UnmarshalText(b []byte) error {
	v, err := ParseOverlay(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Direction selects the across or down clue list.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "across"
}

// ParseDirection converts "across" or "down".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "across":
		return Across, nil
	case "down":
		return Down, nil
	}
	return Across, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Square is one cell of the grid. Index is its row-major position.
// BoxNum, AcrossClueNum and DownClueNum are -1 when not applicable.
type Square struct {
	Index         int        `json:"index"`
	Value         string     `json:"value"`
	Type          SquareType `json:"type"`
	Overlay       Overlay    `json:"overlay"`
	BoxNum        int        `json:"box_num"`
	AcrossClueNum int        `json:"across_clue_num"`
	DownClueNum   int        `json:"down_clue_num"`
}

// Selection is the square currently focused by the editor and the clues
// running through it.
type Selection struct {
	Index     int  `json:"index"`
	Vertical  bool `json:"vertical"`
	AcrossNum int  `json:"across_num"`
	DownNum   int  `json:"down_num"`
}

// Puzzle owns the grid and both clue lists. The zero value is not usable;
// build one with New or Build.
type Puzzle struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Squares []Square   `json:"squares"`
	Across  *ClueList  `json:"across"`
	Down    *ClueList  `json:"down"`
	Title   string     `json:"title,omitempty"`
	Author  string     `json:"author,omitempty"`
	Current *Selection `json:"selection,omitempty"`
}

// New creates a width×height grid of blank letter squares, numbered.
func New(width, height int) (*Puzzle, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	p := &Puzzle{
		Width:   width,
		Height:  height,
		Squares: make([]Square, width*height),
		Across:  NewClueList(),
		Down:    NewClueList(),
	}
	for i := range p.Squares {
		p.Squares[i] = Square{Index: i, Type: Letter, BoxNum: -1, AcrossClueNum: -1, DownClueNum: -1}
	}
	p.Number()
	return p, nil
}

// Len is the number of squares, width*height.
func (p *Puzzle) Len() int { return len(p.Squares) }

// Reflect returns the point-symmetric partner of index. It is an involution.
func (p *Puzzle) Reflect(index int) int { return p.Len() - 1 - index }

func (p *Puzzle) RowOf(index int) int { return index / p.Width }

func (p *Puzzle) ColOf(index int) int { return index % p.Width }

// Square returns a copy of the square at index.
func (p *Puzzle) Square(index int) (Square, error) {
	if err := p.checkIndex(index); err != nil {
		return Square{}, err
	}
	return p.Squares[index], nil
}

// Clues returns the clue list for a direction.
func (p *Puzzle) Clues(d Direction) *ClueList {
	if d == Down {
		return p.Down
	}
	return p.Across
}

func (p *Puzzle) isLetter(index int) bool { return p.Squares[index].Type == Letter }

func (p *Puzzle) checkIndex(index int) error {
	if index < 0 || index >= p.Len() {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, index, p.Len())
	}
	return nil
}
