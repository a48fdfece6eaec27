package puzzle

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Clue is one across or down entry. Answer holds one rune per square in
// Squares, with a space standing for a blank square. Accented letters take
// more than one byte, so compare lengths with utf8.RuneCountInString, not len.
type Clue struct {
	Num     int    `json:"num"`
	Text    string `json:"text"`
	Answer  string `json:"answer"`
	Squares []int  `json:"squares"`
}

func (c *Clue) start() int { return c.Squares[0] }

func (c *Clue) clone() Clue {
	cp := *c
	cp.Squares = append([]int(nil), c.Squares...)
	return cp
}

// ClueList is an ordered clue sequence (by clue number) with a number to
// position index kept in step with every mutation.
type ClueList struct {
	clues []*Clue
	pos   map[int]int
}

func NewClueList() *ClueList {
	return &ClueList{pos: make(map[int]int)}
}

func (l *ClueList) Len() int { return len(l.clues) }

// At returns the clue at position i.
func (l *ClueList) At(i int) *Clue { return l.clues[i] }

// Lookup returns the clue numbered num.
func (l *ClueList) Lookup(num int) (*Clue, bool) {
	i, ok := l.pos[num]
	if !ok {
		return nil, false
	}
	return l.clues[i], true
}

// Clues returns a deep copy of the list.
func (l *ClueList) Clues() []Clue {
	out := make([]Clue, len(l.clues))
	for i, c := range l.clues {
		out[i] = c.clone()
	}
	return out
}

// Texts returns the clue texts in numbering order.
func (l *ClueList) Texts() []string {
	out := make([]string, len(l.clues))
	for i, c := range l.clues {
		out[i] = c.Text
	}
	return out
}

func (l *ClueList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Clues())
}

// mustPos returns the position of clue num. A miss means the squares and
// the list disagree, which no caller can recover from.
func (l *ClueList) mustPos(num int) int {
	i, ok := l.pos[num]
	if !ok {
		panic(fmt.Sprintf("puzzle: clue %d missing from list of %d", num, len(l.clues)))
	}
	return i
}

func (l *ClueList) insert(i int, c *Clue) {
	l.clues = append(l.clues, nil)
	copy(l.clues[i+1:], l.clues[i:])
	l.clues[i] = c
	l.reindex()
}

func (l *ClueList) remove(i int) {
	l.clues = append(l.clues[:i], l.clues[i+1:]...)
	l.reindex()
}

// searchStart returns the position at which a run starting at square index
// start belongs. Entries are ordered by start square, which is the order of
// their numbers.
func (l *ClueList) searchStart(start int) int {
	return sort.Search(len(l.clues), func(i int) bool {
		return l.clues[i].start() >= start
	})
}

// reindex rebuilds the number index. Placeholders (Num 0) are not indexed.
func (l *ClueList) reindex() {
	clear(l.pos)
	for i, c := range l.clues {
		if c.Num > 0 {
			l.pos[c.Num] = i
		}
	}
}

// reconcile writes runs into the list position by position. Existing entries
// keep their identity and text; missing ones are appended and surplus ones
// dropped.
func (l *ClueList) reconcile(runs []run) {
	for i, r := range runs {
		if i < len(l.clues) {
			c := l.clues[i]
			c.Num, c.Answer, c.Squares = r.num, r.answer, r.squares
			continue
		}
		l.clues = append(l.clues, &Clue{Num: r.num, Answer: r.answer, Squares: r.squares})
	}
	for i := len(runs); i < len(l.clues); i++ {
		l.clues[i] = nil
	}
	l.clues = l.clues[:len(runs)]
	l.reindex()
}

// setTexts zips texts onto the list positionally. Extra texts are ignored.
func (l *ClueList) setTexts(texts []string) {
	for i, c := range l.clues {
		if i >= len(texts) {
			return
		}
		c.Text = texts[i]
	}
}
