package puzzle

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/katalvlaran/lvlath/graph/algorithms"
	"github.com/katalvlaran/lvlath/graph/core"
)

// ClueRef names a clue by direction and number.
type ClueRef struct {
	Direction Direction `json:"direction"`
	Num       int       `json:"num"`
}

// Duplicate is a filled answer used by more than one clue.
type Duplicate struct {
	Answer string    `json:"answer"`
	Clues  []ClueRef `json:"clues"`
}

// Stats summarizes the grid's words and squares.
type Stats struct {
	Words         int     `json:"words"`
	Blocks        int     `json:"blocks"`
	Letters       int     `json:"letters"`
	Filled        int     `json:"filled"`
	AverageLength float64 `json:"average_length"`
}

// Report bundles the structural checks.
type Report struct {
	Symmetric  bool        `json:"symmetric"`
	Asymmetric []int       `json:"asymmetric,omitempty"`
	Connected  bool        `json:"connected"`
	Components int         `json:"components"`
	Duplicates []Duplicate `json:"duplicates,omitempty"`
	Stats      Stats       `json:"stats"`
}

// Check runs every structural check.
func (p *Puzzle) Check() Report {
	asym := p.AsymmetricSquares()
	comps := p.Components()
	return Report{
		Symmetric:  len(asym) == 0,
		Asymmetric: asym,
		Connected:  len(comps) <= 1,
		Components: len(comps),
		Duplicates: p.Duplicates(),
		Stats:      p.Stats(),
	}
}

// AsymmetricSquares lists squares whose reflection has a different type.
// Each pair is reported once, by its lower index.
func (p *Puzzle) AsymmetricSquares() []int {
	var out []int
	for i := 0; i < p.Len()/2; i++ {
		if p.Squares[i].Type != p.Squares[p.Reflect(i)].Type {
			out = append(out, i)
		}
	}
	return out
}

func (p *Puzzle) Symmetric() bool { return len(p.AsymmetricSquares()) == 0 }

// Components groups letter squares into orthogonally connected regions,
// ordered by their lowest square. Each region lists its squares ascending.
func (p *Puzzle) Components() [][]int {
	g := p.letterGraph()
	seen := make([]bool, p.Len())
	var comps [][]int
	for i := range p.Squares {
		if seen[i] || !p.isLetter(i) {
			continue
		}
		res, err := algorithms.BFS(g, strconv.Itoa(i), nil)
		if err != nil {
			panic(fmt.Sprintf("puzzle: letter square %d missing from graph: %v", i, err))
		}
		comp := make([]int, 0, len(res.Order))
		for _, v := range res.Order {
			j, _ := strconv.Atoi(v.ID)
			seen[j] = true
			comp = append(comp, j)
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}
	return comps
}

// Connected reports whether every letter square can reach every other.
func (p *Puzzle) Connected() bool { return len(p.Components()) <= 1 }

// letterGraph has one vertex per letter square, keyed by its index, and an
// undirected edge between letters that touch on the right or below.
func (p *Puzzle) letterGraph() *core.Graph {
	g := core.NewGraph(false, false)
	for i := range p.Squares {
		if !p.isLetter(i) {
			continue
		}
		id := strconv.Itoa(i)
		g.AddVertex(&core.Vertex{ID: id})
		if !p.atLast(i, Across) && p.isLetter(i+1) {
			g.AddEdge(id, strconv.Itoa(i+1), 0)
		}
		if !p.atLast(i, Down) && p.isLetter(i+p.Width) {
			g.AddEdge(id, strconv.Itoa(i+p.Width), 0)
		}
	}
	return g
}

// Duplicates reports fully filled answers of two or more letters that appear
// in more than one clue, across and down combined, in numbering order.
func (p *Puzzle) Duplicates() []Duplicate {
	refs := make(map[string][]ClueRef)
	var order []string
	for _, d := range []Direction{Across, Down} {
		for _, c := range p.Clues(d).clues {
			if utf8.RuneCountInString(c.Answer) < 2 || strings.Contains(c.Answer, " ") {
				continue
			}
			if _, ok := refs[c.Answer]; !ok {
				order = append(order, c.Answer)
			}
			refs[c.Answer] = append(refs[c.Answer], ClueRef{Direction: d, Num: c.Num})
		}
	}
	var dups []Duplicate
	for _, a := range order {
		if len(refs[a]) > 1 {
			dups = append(dups, Duplicate{Answer: a, Clues: refs[a]})
		}
	}
	return dups
}

func (p *Puzzle) Stats() Stats {
	var s Stats
	for _, sq := range p.Squares {
		switch {
		case sq.Type == Spacer:
			s.Blocks++
		case sq.Value != "":
			s.Letters++
			s.Filled++
		default:
			s.Letters++
		}
	}
	total := 0
	for _, d := range []Direction{Across, Down} {
		for _, c := range p.Clues(d).clues {
			s.Words++
			total += len(c.Squares)
		}
	}
	if s.Words > 0 {
		s.AverageLength = float64(total) / float64(s.Words)
	}
	return s
}
