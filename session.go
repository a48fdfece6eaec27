package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/bodul/crossword-builder/puzzle"
)

// Session is a puzzle under construction. The engine is not safe for
// concurrent use, so every access goes through the session lock: edits take
// it exclusively, queries share it.
type Session struct {
	ID        string
	CreatedAt time.Time
	mu        sync.RWMutex
	p         *puzzle.Puzzle
}

// MarshalJSON renders the session and the full puzzle state.
func (s *Session) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		*puzzle.Puzzle
	}{s.ID, s.CreatedAt, s.p})
}

// Summary is the listing form of a session.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{ID: s.ID, Title: s.p.Title, Width: s.p.Width, Height: s.p.Height, CreatedAt: s.CreatedAt}
}

// Edit applies one mutation under the write lock. When the mutation
// changed something, notify runs before the lock is released, so
// notifications go out in commit order. notify may be nil.
func (s *Session) Edit(fn func(*puzzle.Puzzle) (puzzle.Change, error), notify func(puzzle.Change)) (puzzle.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	change, err := fn(s.p)
	if err != nil {
		return change, err
	}
	if notify != nil && !change.Empty() {
		notify(change)
	}
	return change, nil
}

// Select focuses a square.
func (s *Session) Select(index int) (puzzle.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Select(index)
}

// Navigate steps from a square. Backwards steps when prev is set.
func (s *Session) Navigate(from int, prev, vertical, skipSpacers bool) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.p.Square(from); err != nil {
		return 0, err
	}
	if prev {
		return s.p.PrevIndex(from, vertical, skipSpacers), nil
	}
	return s.p.NextIndex(from, vertical, skipSpacers), nil
}

// Check runs the structural checks.
func (s *Session) Check() puzzle.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p.Check()
}

// Document returns the persisted form of the puzzle.
func (s *Session) Document() puzzle.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p.Document()
}
