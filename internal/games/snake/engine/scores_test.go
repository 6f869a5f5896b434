package engine_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

// memStore is an in-memory ScoreStore.
type memStore struct {
	entries []engine.ScoreEntry
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load() ([]engine.ScoreEntry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]engine.ScoreEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memStore) Save(entries []engine.ScoreEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.entries = make([]engine.ScoreEntry, len(entries))
	copy(m.entries, entries)
	return nil
}

func nineEntries(t *testing.T) *engine.ScoreTracker {
	t.Helper()
	tr := engine.NewScoreTracker()
	for score := 100; score >= 20; score -= 10 {
		if _, err := tr.CommitScore("AAA", score); err != nil {
			t.Fatalf("CommitScore(%d) failed: %v", score, err)
		}
	}
	return tr
}

func TestScoreTrackerUpdate(t *testing.T) {
	tr := engine.NewScoreTracker()

	tr.UpdateScore(5)
	tr.UpdateScore(3)
	if tr.Score() != 3 {
		t.Errorf("Score() = %d, expected 3", tr.Score())
	}
	if tr.HighScore() != 5 {
		t.Errorf("HighScore() = %d, expected 5", tr.HighScore())
	}

	tr.ResetCurrent()
	if tr.Score() != 0 || tr.HighScore() != 5 {
		t.Errorf("after ResetCurrent got score=%d high=%d, expected 0 and 5", tr.Score(), tr.HighScore())
	}
}

func TestIsTopScoreAndEviction(t *testing.T) {
	tr := nineEntries(t)

	if !tr.IsTopScore(25) {
		t.Error("IsTopScore(25) with nine entries should be true")
	}
	if !tr.IsTopScore(0) {
		t.Error("any score qualifies while fewer than ten entries exist")
	}

	if _, err := tr.CommitScore("BBB", 25); err != nil {
		t.Fatalf("CommitScore() failed: %v", err)
	}
	if len(tr.TopScores()) != engine.MaxTopScores {
		t.Fatalf("len(TopScores()) = %d, expected 10", len(tr.TopScores()))
	}

	// Ties with the lowest entry do not qualify
	if tr.IsTopScore(20) {
		t.Error("IsTopScore(20) should be false when 20 is the tenth score")
	}
	if !tr.IsTopScore(21) {
		t.Error("IsTopScore(21) should be true")
	}

	rank, err := tr.CommitScore("CCC", 26)
	if err != nil {
		t.Fatalf("CommitScore() failed: %v", err)
	}
	if rank != 9 {
		t.Errorf("rank = %d, expected 9", rank)
	}
	top := tr.TopScores()
	if len(top) != engine.MaxTopScores {
		t.Errorf("len(TopScores()) = %d, expected 10", len(top))
	}
	for _, e := range top {
		if e.Score == 20 {
			t.Error("the 20 entry should have been evicted")
		}
	}
	if top[len(top)-1].Score != 25 {
		t.Errorf("lowest entry = %d, expected 25", top[len(top)-1].Score)
	}
}

func TestCommitScoreTieKeepsInsertionOrder(t *testing.T) {
	tr := engine.NewScoreTracker()
	for _, name := range []string{"AAA", "BBB", "CCC"} {
		if _, err := tr.CommitScore(name, 50); err != nil {
			t.Fatalf("CommitScore() failed: %v", err)
		}
	}
	rank, _ := tr.CommitScore("DDD", 60)
	if rank != 1 {
		t.Errorf("rank = %d, expected 1", rank)
	}

	want := []engine.ScoreEntry{
		{Initials: "DDD", Score: 60},
		{Initials: "AAA", Score: 50},
		{Initials: "BBB", Score: 50},
		{Initials: "CCC", Score: 50},
	}
	if got := tr.TopScores(); !reflect.DeepEqual(got, want) {
		t.Errorf("TopScores() = %v, expected %v", got, want)
	}
}

func TestCommitScoreRankZeroWhenTruncated(t *testing.T) {
	tr := nineEntries(t)
	//nolint:errcheck
	tr.CommitScore("XXX", 20)
	rank, err := tr.CommitScore("YYY", 20)
	if err != nil {
		t.Fatalf("CommitScore() failed: %v", err)
	}
	if rank != 0 {
		t.Errorf("rank = %d, expected 0 for an entry that did not survive", rank)
	}
}

func TestNormalizeInitials(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"abc", "ABC", false},
		{" xyz ", "XYZ", false},
		{"A1!", "A1!", false},
		{"AB", "", true},
		{"ABCD", "", true},
		{"A C", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		got, err := engine.NormalizeInitials(tc.in)
		if tc.wantErr {
			if !errors.Is(err, engine.ErrInvalidInitials) {
				t.Errorf("NormalizeInitials(%q) error = %v, expected ErrInvalidInitials", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("NormalizeInitials(%q) = %q, %v, expected %q", tc.in, got, err, tc.want)
		}
	}
}

func TestScoreTrackerSaveLoadRoundTrip(t *testing.T) {
	store := &memStore{}
	tr := engine.NewScoreTracker()
	for i, score := range []int{30, 90, 60, 90} {
		name := string(rune('A'+i)) + "ZZ"
		if _, err := tr.CommitScore(name, score); err != nil {
			t.Fatalf("CommitScore() failed: %v", err)
		}
	}
	if err := tr.Save(store); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	reloaded := engine.NewScoreTracker()
	if err := reloaded.Load(store); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(reloaded.TopScores(), tr.TopScores()) {
		t.Errorf("reloaded %v, expected %v", reloaded.TopScores(), tr.TopScores())
	}
	if reloaded.HighScore() != 90 {
		t.Errorf("HighScore() after Load = %d, expected 90", reloaded.HighScore())
	}
}

func TestScoreTrackerStoreFailures(t *testing.T) {
	tr := engine.NewScoreTracker()
	//nolint:errcheck
	tr.CommitScore("AAA", 10)

	broken := &memStore{loadErr: errors.New("disk gone"), saveErr: errors.New("disk gone")}
	if err := tr.Load(broken); err == nil {
		t.Error("Load() should report the store error")
	}
	if len(tr.TopScores()) != 1 {
		t.Error("a failed Load must keep the current leaderboard")
	}
	if err := tr.Save(broken); err == nil {
		t.Error("Save() should report the store error")
	}
	if err := tr.Save(nil); !errors.Is(err, engine.ErrNoStore) {
		t.Errorf("Save(nil) error = %v, expected ErrNoStore", err)
	}
}
