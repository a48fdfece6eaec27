package puzzle

import (
	"fmt"
	"slices"
)

// Document is the persisted form of a puzzle. Answers lists the letter
// squares' values in row-major order, skipping spacers; clue texts are in
// numbering order.
type Document struct {
	Title       string   `json:"title,omitempty"`
	Author      string   `json:"author,omitempty"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Answers     []string `json:"answers"`
	Spacers     []int    `json:"spacers"`
	Circles     []int    `json:"circles"`
	Shades      []int    `json:"shades"`
	AcrossClues []string `json:"across-clues"`
	DownClues   []string `json:"down-clues"`
}

// Build reconstructs a puzzle from its document: square types and overlays
// from the index lists, letters positionally from Answers, then a numbering
// pass onto which the clue texts are zipped.
func Build(doc Document) (*Puzzle, error) {
	p, err := New(doc.Width, doc.Height)
	if err != nil {
		return nil, err
	}
	p.Title, p.Author = doc.Title, doc.Author

	if err := p.markSquares(doc.Spacers, func(sq *Square) error {
		sq.Type = Spacer
		return nil
	}); err != nil {
		return nil, fmt.Errorf("spacers: %w", err)
	}
	if err := p.markSquares(doc.Circles, overlay(Circle)); err != nil {
		return nil, fmt.Errorf("circles: %w", err)
	}
	if err := p.markSquares(doc.Shades, overlay(Shade)); err != nil {
		return nil, fmt.Errorf("shades: %w", err)
	}

	k := 0
	for i := range p.Squares {
		sq := &p.Squares[i]
		if sq.Type == Spacer {
			continue
		}
		if k >= len(doc.Answers) {
			return nil, fmt.Errorf("%w: %d answers", ErrShortAnswers, len(doc.Answers))
		}
		v, err := NormalizeValue(doc.Answers[k])
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", k, err)
		}
		sq.Value = v
		k++
	}

	p.Number()
	p.Across.setTexts(doc.AcrossClues)
	p.Down.setTexts(doc.DownClues)
	return p, nil
}

func (p *Puzzle) markSquares(indices []int, mark func(*Square) error) error {
	for _, i := range indices {
		if err := p.checkIndex(i); err != nil {
			return err
		}
		if err := mark(&p.Squares[i]); err != nil {
			return err
		}
	}
	return nil
}

// overlay marks letter squares only; spacers carry no decoration.
func overlay(o Overlay) func(*Square) error {
	return func(sq *Square) error {
		if sq.Type == Spacer {
			return fmt.Errorf("%w: %d", ErrSpacer, sq.Index)
		}
		sq.Overlay = o
		return nil
	}
}

// Document projects the puzzle back to its persisted form. Index lists come
// out ascending.
func (p *Puzzle) Document() Document {
	doc := Document{
		Title:       p.Title,
		Author:      p.Author,
		Width:       p.Width,
		Height:      p.Height,
		Answers:     []string{},
		Spacers:     []int{},
		Circles:     []int{},
		Shades:      []int{},
		AcrossClues: p.Across.Texts(),
		DownClues:   p.Down.Texts(),
	}
	for _, sq := range p.Squares {
		if sq.Type == Spacer {
			doc.Spacers = append(doc.Spacers, sq.Index)
			continue
		}
		doc.Answers = append(doc.Answers, sq.Value)
		switch sq.Overlay {
		case Circle:
			doc.Circles = append(doc.Circles, sq.Index)
		case Shade:
			doc.Shades = append(doc.Shades, sq.Index)
		}
	}
	return doc
}

// Canonical returns a copy of doc with its index lists sorted, the order in
// which Document emits them.
func (doc Document) Canonical() Document {
	doc.Spacers = sortedCopy(doc.Spacers)
	doc.Circles = sortedCopy(doc.Circles)
	doc.Shades = sortedCopy(doc.Shades)
	return doc
}

func sortedCopy(s []int) []int {
	s = slices.Clone(s)
	slices.Sort(s)
	return s
}
