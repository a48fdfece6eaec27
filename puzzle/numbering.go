package puzzle

import "sort"

// run is a maximal sequence of letter squares in one direction, as found by
// the numbering scan.
type run struct {
	num     int
	answer  string
	squares []int
}

// runAcc accumulates a run while the scan is inside it.
type runAcc struct {
	num     int
	answer  []byte
	squares []int
}

func (a *runAcc) add(index int, ch string) {
	a.squares = append(a.squares, index)
	a.answer = append(a.answer, ch...)
}

func (a *runAcc) done() run {
	return run{num: a.num, answer: string(a.answer), squares: a.squares}
}

// char is the square's contribution to a clue answer.
func (sq *Square) char() string {
	if sq.Value == "" {
		return " "
	}
	return sq.Value
}

// Number recomputes square numbers and both clue lists in one row-major
// scan. Clue entries already in the lists are rewritten in place, position
// by position, so their text survives as long as the lists were kept aligned
// with the grid's runs.
func (p *Puzzle) Number() {
	var (
		num    int
		across []run
		down   []run
		acc    runAcc
		cols   = make([]runAcc, p.Width)
	)
	for i := range p.Squares {
		sq := &p.Squares[i]
		if sq.Type == Spacer {
			sq.BoxNum, sq.AcrossClueNum, sq.DownClueNum = -1, -1, -1
			continue
		}
		col := p.ColOf(i)
		startsAcross, startsDown := p.IsAcrossStart(i), p.IsDownStart(i)

		sq.BoxNum = -1
		if startsAcross || startsDown {
			num++
			sq.BoxNum = num
		}
		if startsAcross {
			acc = runAcc{num: num}
		}
		if startsDown {
			cols[col] = runAcc{num: num}
		}

		ch := sq.char()
		acc.add(i, ch)
		cols[col].add(i, ch)
		sq.AcrossClueNum = acc.num
		sq.DownClueNum = cols[col].num

		if p.IsAcrossEnd(i) {
			across = append(across, acc.done())
		}
		if p.IsDownEnd(i) {
			down = append(down, cols[col].done())
		}
	}
	// Down runs complete in order of their last square, not their number.
	sort.SliceStable(down, func(a, b int) bool { return down[a].num < down[b].num })

	p.Across.reconcile(across)
	p.Down.reconcile(down)
}
