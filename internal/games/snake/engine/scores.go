package engine

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTopScores is the size of the leaderboard.
const MaxTopScores = 10

// InitialsLen is the exact number of characters in leaderboard initials.
const InitialsLen = 3

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	Initials string
	Score    int
}

// ScoreStore persists the leaderboard. Load returns entries ordered by score
// descending (possibly none); Save receives the full ordered list.
type ScoreStore interface {
	Load() ([]ScoreEntry, error)
	Save(entries []ScoreEntry) error
}

// ScoreUpdater is implemented by stores that can read, change and write the
// leaderboard as one atomic step. fn receives the stored entries and returns
// the list to store; an error from fn leaves the store unchanged.
type ScoreUpdater interface {
	UpdateScores(fn func(current []ScoreEntry) ([]ScoreEntry, error)) error
}

// ScoreTracker keeps the current score, the running high score and the
// top-10 leaderboard.
type ScoreTracker struct {
	score     int
	highScore int
	top       []ScoreEntry
}

// NewScoreTracker returns a tracker with no scores.
func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{}
}

// Score returns the current score.
func (t *ScoreTracker) Score() int { return t.score }

// HighScore returns the best score seen during this tracker's lifetime,
// including scores loaded from the store.
func (t *ScoreTracker) HighScore() int { return t.highScore }

// TopScores returns a copy of the leaderboard, best first.
func (t *ScoreTracker) TopScores() []ScoreEntry {
	out := make([]ScoreEntry, len(t.top))
	copy(out, t.top)
	return out
}

// UpdateScore sets the current score and raises the high score if needed.
func (t *ScoreTracker) UpdateScore(value int) {
	t.score = value
	if value > t.highScore {
		t.highScore = value
	}
}

// ResetCurrent zeroes the current score. The high score is kept.
func (t *ScoreTracker) ResetCurrent() {
	t.score = 0
}

// IsTopScore reports whether value would enter the leaderboard.
// A value equal to the lowest of ten entries does not qualify.
func (t *ScoreTracker) IsTopScore(value int) bool {
	if len(t.top) < MaxTopScores {
		return true
	}
	return value > t.top[MaxTopScores-1].Score
}

// CommitScore records score under initials and returns its 1-based rank,
// or 0 when it fell off the end of the leaderboard.
//
// Entries are kept sorted by score descending. Equal scores keep insertion
// order, so an older entry ranks above a newer one with the same score.
func (t *ScoreTracker) CommitScore(initials string, score int) (int, error) {
	name, err := NormalizeInitials(initials)
	if err != nil {
		return 0, err
	}
	t.top = append(t.top, ScoreEntry{Initials: name, Score: score})
	added := len(t.top) - 1
	order := make([]int, len(t.top))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return t.top[order[i]].Score > t.top[order[j]].Score
	})

	sorted := make([]ScoreEntry, 0, len(t.top))
	rank := 0
	for i, idx := range order {
		if i >= MaxTopScores {
			break
		}
		if idx == added {
			rank = i + 1
		}
		sorted = append(sorted, t.top[idx])
	}
	t.top = sorted
	if score > t.highScore {
		t.highScore = score
	}
	return rank, nil
}

// Load replaces the leaderboard with the store's contents. The high score is
// raised to the best loaded entry. On error the leaderboard is left as it was.
func (t *ScoreTracker) Load(store ScoreStore) error {
	if store == nil {
		return ErrNoStore
	}
	entries, err := store.Load()
	if err != nil {
		return fmt.Errorf("engine: load scores: %w", err)
	}
	t.setTop(entries)
	return nil
}

// Save writes the leaderboard to the store.
func (t *ScoreTracker) Save(store ScoreStore) error {
	if store == nil {
		return ErrNoStore
	}
	if err := store.Save(t.TopScores()); err != nil {
		return fmt.Errorf("engine: save scores: %w", err)
	}
	return nil
}

func (t *ScoreTracker) setTop(entries []ScoreEntry) {
	top := make([]ScoreEntry, len(entries))
	copy(top, entries)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Score > top[j].Score
	})
	if len(top) > MaxTopScores {
		top = top[:MaxTopScores]
	}
	t.top = top
	if len(top) > 0 && top[0].Score > t.highScore {
		t.highScore = top[0].Score
	}
}

// NormalizeInitials trims and upper-cases s and checks that it is exactly
// three printable, non-space characters.
func NormalizeInitials(s string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if utf8.RuneCountInString(name) != InitialsLen {
		return "", fmt.Errorf("engine: %q: %w", s, ErrInvalidInitials)
	}
	for _, r := range name {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return "", fmt.Errorf("engine: %q: %w", s, ErrInvalidInitials)
		}
	}
	return name, nil
}
