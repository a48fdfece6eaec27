package main

import (
	"sync"
	"testing"
	"time"

	"github.com/bodul/crossword-builder/puzzle"
)

func newTestPuzzle(t *testing.T, width, height int) *puzzle.Puzzle {
	t.Helper()
	p, err := puzzle.New(width, height)
	if err != nil {
		t.Fatalf("new puzzle: %v", err)
	}
	return p
}

func TestSaveAndGet(t *testing.T) {
	s := NewStore()
	sess := s.Save(newTestPuzzle(t, 5, 5))

	if sess.ID == "" {
		t.Fatal("expected session to have an ID")
	}
	if got := s.Get(sess.ID); got != sess {
		t.Fatal("expected to find saved session")
	}
	if got := s.Get("nonexistent"); got != nil {
		t.Fatal("expected nil for unknown ID")
	}
}

func TestList(t *testing.T) {
	s := NewStore()
	first := s.Save(newTestPuzzle(t, 5, 5))
	first.CreatedAt = time.Now().Add(-time.Minute)
	s.Save(newTestPuzzle(t, 8, 8))

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	// Most recent first.
	if list[1] != first {
		t.Fatal("expected sessions sorted by descending creation time")
	}
}

func TestDelete(t *testing.T) {
	s := NewStore()
	sess := s.Save(newTestPuzzle(t, 3, 3))

	if !s.Delete(sess.ID) {
		t.Fatal("expected delete to report existing session")
	}
	if s.Delete(sess.ID) {
		t.Fatal("expected second delete to report missing session")
	}
	if s.Get(sess.ID) != nil {
		t.Fatal("session still present after delete")
	}
}

func TestSessionEditAndQuery(t *testing.T) {
	s := NewStore()
	sess := s.Save(newTestPuzzle(t, 4, 4))

	var notified []puzzle.Change
	change, err := sess.Edit(func(p *puzzle.Puzzle) (puzzle.Change, error) {
		return p.ToggleType(1)
	}, func(c puzzle.Change) {
		notified = append(notified, c)
	})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(change.Squares) == 0 {
		t.Fatal("expected changed squares")
	}
	if len(notified) != 1 {
		t.Fatalf("expected one notification, got %d", len(notified))
	}

	// A no-op edit and a failed edit notify nobody.
	sess.Edit(func(p *puzzle.Puzzle) (puzzle.Change, error) {
		return p.SetValue(0, "")
	}, func(c puzzle.Change) {
		notified = append(notified, c)
	})
	sess.Edit(func(p *puzzle.Puzzle) (puzzle.Change, error) {
		return p.SetValue(1, "A")
	}, func(c puzzle.Change) {
		notified = append(notified, c)
	})
	if len(notified) != 1 {
		t.Fatalf("expected no further notifications, got %d", len(notified))
	}

	doc := sess.Document()
	if len(doc.Spacers) != 2 || doc.Spacers[0] != 1 || doc.Spacers[1] != 14 {
		t.Fatalf("expected spacers [1 14], got %v", doc.Spacers)
	}

	next, err := sess.Navigate(0, false, false, true)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if next != 2 {
		t.Fatalf("expected next letter 2, got %d", next)
	}
	if _, err := sess.Navigate(16, false, false, false); err == nil {
		t.Fatal("expected error for out-of-range start")
	}

	if !sess.Check().Symmetric {
		t.Fatal("expected symmetric grid")
	}
	if sum := sess.Summary(); sum.Width != 4 || sum.Height != 4 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	sess := s.Save(newTestPuzzle(t, 10, 10))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess.Edit(func(p *puzzle.Puzzle) (puzzle.Change, error) {
				return p.ToggleType(i % 50)
			}, nil)
			sess.Edit(func(p *puzzle.Puzzle) (puzzle.Change, error) {
				return p.SetValue(99-i%50, "A")
			}, nil)
			sess.Navigate(i, false, i%2 == 0, true)
			sess.Check()
			sess.MarshalJSON()
		}(i)
	}
	wg.Wait()

	if !sess.Check().Symmetric {
		t.Fatal("expected grid to stay symmetric")
	}
}

func TestSessionNotifiesInCommitOrder(t *testing.T) {
	s := NewStore()
	sess := s.Save(newTestPuzzle(t, 10, 10))

	var committed, notified []int
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess.Edit(func(p *puzzle.Puzzle) (puzzle.Change, error) {
				committed = append(committed, i)
				return p.ToggleType(i)
			}, func(puzzle.Change) {
				notified = append(notified, i)
			})
		}(i)
	}
	wg.Wait()

	if len(notified) != len(committed) {
		t.Fatalf("expected %d notifications, got %d", len(committed), len(notified))
	}
	for k := range committed {
		if committed[k] != notified[k] {
			t.Fatalf("notification %d is edit %d, committed edit %d", k, notified[k], committed[k])
		}
	}
}
