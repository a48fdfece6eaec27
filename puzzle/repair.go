package puzzle

// ToggleType flips a square between letter and spacer and gives its
// reflection the same type, keeping the grid point-symmetric. The clue lists
// are patched around each flipped square and then renumbered, so clues whose
// run was not touched keep their text.
//
// The toggled square is handled first (across, then down, then a renumber)
// and its reflection second, so the second repair always starts from a
// consistently numbered grid.
func (p *Puzzle) ToggleType(index int) (Change, error) {
	if err := p.checkIndex(index); err != nil {
		return Change{}, err
	}
	before := p.snapshot()

	to := Spacer
	if p.Squares[index].Type == Spacer {
		to = Letter
	}
	p.setType(index, to)
	if r := p.Reflect(index); p.Squares[r].Type != to {
		p.setType(r, to)
	}
	p.refreshSelection()
	return p.changesSince(before), nil
}

func (p *Puzzle) setType(index int, t SquareType) {
	sq := &p.Squares[index]
	sq.Type = t
	if t == Spacer {
		sq.Value = ""
		sq.Overlay = NoOverlay
	}
	p.repair(index, Across)
	p.repair(index, Down)
	p.Number()
}

// repair realigns one clue list with the runs around a square whose type has
// just been flipped. Square clue numbers still describe the grid before the
// flip at this point.
//
// Only runs passing through the square or its two neighbours in direction d
// can change. Their old entries are dropped (a split, merge, shrink or
// growth resets the text) and one blank entry per resulting run is inserted
// at its sorted position, ready for Number to fill in.
func (p *Puzzle) repair(index int, d Direction) {
	list := p.Clues(d)
	window := p.window(index, d)

	var stale []int
	seen := make(map[int]bool, len(window))
	for _, j := range window {
		n := p.Squares[j].clueNum(d)
		if n <= 0 || seen[n] {
			continue
		}
		seen[n] = true
		stale = append(stale, list.mustPos(n))
	}
	// Positions from the same window are ascending; drop from the back.
	for k := len(stale) - 1; k >= 0; k-- {
		list.remove(stale[k])
	}

	inserted := make(map[int]bool, 2)
	for _, j := range window {
		if !p.isLetter(j) {
			continue
		}
		start := p.runStart(j, d)
		if inserted[start] {
			continue
		}
		inserted[start] = true
		list.insert(list.searchStart(start), &Clue{Squares: []int{start}})
	}
}

// window returns index and its in-grid neighbours along d, in grid order.
func (p *Puzzle) window(index int, d Direction) []int {
	step := p.stride(d == Down)
	w := make([]int, 0, 3)
	if !p.atFirst(index, d) {
		w = append(w, index-step)
	}
	w = append(w, index)
	if !p.atLast(index, d) {
		w = append(w, index+step)
	}
	return w
}

// runStart walks back from a letter square to the first square of its run.
func (p *Puzzle) runStart(index int, d Direction) int {
	step := p.stride(d == Down)
	for !p.atFirst(index, d) && p.isLetter(index-step) {
		index -= step
	}
	return index
}

func (p *Puzzle) atFirst(index int, d Direction) bool {
	if d == Down {
		return p.RowOf(index) == 0
	}
	return p.ColOf(index) == 0
}

func (p *Puzzle) atLast(index int, d Direction) bool {
	if d == Down {
		return p.RowOf(index) == p.Height-1
	}
	return p.ColOf(index) == p.Width-1
}

func (sq *Square) clueNum(d Direction) int {
	if d == Down {
		return sq.DownClueNum
	}
	return sq.AcrossClueNum
}
