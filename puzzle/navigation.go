package puzzle

// IsAcrossStart reports whether a letter square begins an across run.
func (p *Puzzle) IsAcrossStart(index int) bool {
	return p.isLetter(index) && (p.ColOf(index) == 0 || !p.isLetter(index-1))
}

// IsAcrossEnd reports whether a letter square ends an across run.
func (p *Puzzle) IsAcrossEnd(index int) bool {
	return p.isLetter(index) && (p.ColOf(index) == p.Width-1 || !p.isLetter(index+1))
}

// IsDownStart reports whether a letter square begins a down run.
func (p *Puzzle) IsDownStart(index int) bool {
	return p.isLetter(index) && (p.RowOf(index) == 0 || !p.isLetter(index-p.Width))
}

// IsDownEnd reports whether a letter square ends a down run.
func (p *Puzzle) IsDownEnd(index int) bool {
	return p.isLetter(index) && (p.RowOf(index) == p.Height-1 || !p.isLetter(index+p.Width))
}

func (p *Puzzle) IsPuzzleStart(index int) bool { return index <= 0 }

func (p *Puzzle) IsPuzzleEnd(index int) bool { return index >= p.Len()-1 }

// FirstLetterIndex returns the lowest letter square index, or Len() when the
// grid holds no letters.
func (p *Puzzle) FirstLetterIndex() int {
	i := 0
	for i < p.Len() && !p.isLetter(i) {
		i++
	}
	return i
}

// NextIndex steps forward by one square, or one row when vertical, wrapping
// around the end of the grid. With skipSpacers it keeps stepping until it
// lands on a letter; if a full cycle finds none, index is returned.
func (p *Puzzle) NextIndex(index int, vertical, skipSpacers bool) int {
	return p.step(index, p.stride(vertical), skipSpacers)
}

// PrevIndex is NextIndex in the opposite direction.
func (p *Puzzle) PrevIndex(index int, vertical, skipSpacers bool) int {
	return p.step(index, -p.stride(vertical), skipSpacers)
}

func (p *Puzzle) stride(vertical bool) int {
	if vertical {
		return p.Width
	}
	return 1
}

func (p *Puzzle) step(index, delta int, skipSpacers bool) int {
	n := p.Len()
	next := ((index+delta)%n + n) % n
	if !skipSpacers {
		return next
	}
	// The orbit of a fixed stride repeats within n steps.
	for range n {
		if p.isLetter(next) {
			return next
		}
		next = ((next+delta)%n + n) % n
	}
	return index
}
