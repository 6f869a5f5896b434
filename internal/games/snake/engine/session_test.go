package engine_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

func newSession(t *testing.T, w, h int, store engine.ScoreStore) *engine.Session {
	t.Helper()
	cfg := engine.SessionConfig{Width: w, Height: h, TickInterval: 100 * time.Millisecond}
	s, err := engine.NewSession(cfg, engine.NewIDGenerator(), store)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s
}

// runToWall starts the session and drives right until the snake dies.
func runToWall(t *testing.T, s *engine.Session) {
	t.Helper()
	for s.State() == engine.StatePlaying {
		if _, err := s.Tick(engine.HeadingRight); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}
}

func TestSessionConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  engine.SessionConfig
	}{
		{"zero width", engine.SessionConfig{Width: 0, Height: 5, TickInterval: time.Millisecond}},
		{"negative height", engine.SessionConfig{Width: 5, Height: -1, TickInterval: time.Millisecond}},
		{"zero interval", engine.SessionConfig{Width: 5, Height: 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.NewSession(tc.cfg, nil, nil); !errors.Is(err, engine.ErrInvalidConfig) {
				t.Errorf("NewSession() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}

	if err := engine.DefaultSessionConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestSessionRunsIntoRightWall(t *testing.T) {
	const w, h = 8, 4
	s := newSession(t, w, h, nil)

	if s.State() != engine.StateStart {
		t.Fatalf("State() = %v, expected start", s.State())
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	for i := 0; i < w-1; i++ {
		res, err := s.Tick(engine.HeadingRight)
		if err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
		if !res.Moved || res.Collision {
			t.Fatalf("tick %d: %+v, expected a move", i, res)
		}
	}

	snap := s.Snapshot()
	if snap.Head != engine.P(w-1, 0) {
		t.Errorf("Head = %v, expected (%d,0)", snap.Head, w-1)
	}
	if !snap.Occupied(engine.P(w-1, 0)) {
		t.Error("the head cell should be occupied")
	}

	res, err := s.Tick(engine.HeadingRight)
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if !res.Collision || res.Moved {
		t.Errorf("final tick = %+v, expected a collision", res)
	}
	if s.State() != engine.StateEnd {
		t.Errorf("State() = %v, expected end", s.State())
	}
	if s.Snapshot().OnBoard() {
		t.Error("terminal frame should show the head past the wall")
	}
}

func TestSessionScoreTracksLength(t *testing.T) {
	s := newSession(t, 20, 3, nil)
	_ = s.Start()

	for i := 0; i < 10; i++ {
		before := s.Snapshot().Length
		if _, err := s.Tick(engine.HeadingRight); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
		snap := s.Snapshot()
		if snap.Length != before+1 {
			t.Errorf("Length = %d, expected %d", snap.Length, before+1)
		}
		if snap.Score != snap.Length {
			t.Errorf("Score = %d, expected it to equal Length %d", snap.Score, snap.Length)
		}
		if snap.HighScore != snap.Score {
			t.Errorf("HighScore = %d, expected %d", snap.HighScore, snap.Score)
		}
	}
}

func TestSessionTurnsOncePerTick(t *testing.T) {
	s := newSession(t, 5, 5, nil)
	_ = s.Start()

	// Up at the top wall is refused and the snake keeps going right
	res, err := s.Tick(engine.HeadingUp)
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if res.Turned {
		t.Error("turn into the wall should be refused")
	}
	if got := s.Snapshot().Head; got != engine.P(1, 0) {
		t.Errorf("Head = %v, expected (1,0)", got)
	}

	// Reversal is refused
	res, _ = s.Tick(engine.HeadingLeft)
	if res.Turned || s.Snapshot().Heading != engine.HeadingRight {
		t.Error("reversal should be refused")
	}
	if got := s.Snapshot().Head; got != engine.P(2, 0) {
		t.Errorf("Head = %v, expected (2,0)", got)
	}

	res, _ = s.Tick(engine.HeadingDown)
	if !res.Turned {
		t.Error("turn down should be accepted")
	}
	if got := s.Snapshot().Head; got != engine.P(2, 1) {
		t.Errorf("Head = %v, expected (2,1)", got)
	}
}

func TestSessionInvalidTransitions(t *testing.T) {
	s := newSession(t, 4, 4, nil)

	// Start state
	if _, err := s.Tick(engine.HeadingRight); !errors.Is(err, engine.ErrInvalidStateTransition) {
		t.Errorf("Tick() in start error = %v, expected ErrInvalidStateTransition", err)
	}
	if _, err := s.Finish("AAA"); !errors.Is(err, engine.ErrInvalidStateTransition) {
		t.Errorf("Finish() in start error = %v, expected ErrInvalidStateTransition", err)
	}
	if err := s.Reset(); !errors.Is(err, engine.ErrInvalidStateTransition) {
		t.Errorf("Reset() in start error = %v, expected ErrInvalidStateTransition", err)
	}
	if err := s.Abort(); !engine.IsStateError(err) {
		t.Errorf("Abort() in start error = %v, expected a state error", err)
	}

	_ = s.Start()
	_, _ = s.Tick(engine.HeadingRight)
	before := s.Snapshot()

	// Playing state
	if err := s.Start(); !errors.Is(err, engine.ErrInvalidStateTransition) {
		t.Errorf("Start() while playing error = %v, expected ErrInvalidStateTransition", err)
	}
	if _, err := s.Finish("AAA"); !errors.Is(err, engine.ErrInvalidStateTransition) {
		t.Errorf("Finish() while playing error = %v, expected ErrInvalidStateTransition", err)
	}
	if _, err := s.Tick(engine.HeadingNone); !errors.Is(err, engine.ErrInvalidHeading) {
		t.Errorf("Tick(none) error = %v, expected ErrInvalidHeading", err)
	}
	if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("rejected calls changed state:\nbefore %+v\nafter  %+v", before, after)
	}

	runToWall(t, s)
	ended := s.Snapshot()

	// End state
	if _, err := s.Tick(engine.HeadingRight); !errors.Is(err, engine.ErrInvalidStateTransition) {
		t.Errorf("Tick() in end error = %v, expected ErrInvalidStateTransition", err)
	}
	if err := s.Abort(); !errors.Is(err, engine.ErrInvalidStateTransition) {
		t.Errorf("Abort() in end error = %v, expected ErrInvalidStateTransition", err)
	}
	if after := s.Snapshot(); !reflect.DeepEqual(ended, after) {
		t.Error("rejected calls in end state changed state")
	}
}

func TestSessionRestartUsesNewIdentity(t *testing.T) {
	ids := engine.NewIDGenerator()
	cfg := engine.SessionConfig{Width: 3, Height: 3, TickInterval: time.Millisecond}
	s, err := engine.NewSession(cfg, ids, nil)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}

	firstID := s.Snapshot().ActorID
	_ = s.Start()
	if s.Snapshot().ActorID != firstID {
		t.Error("first Start should reuse the initial snake")
	}
	runToWall(t, s)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() from end failed: %v", err)
	}
	snap := s.Snapshot()
	if snap.ActorID == firstID {
		t.Error("restart should create a snake with a new identity")
	}
	if snap.Score != 0 || snap.Length != 1 || snap.Head != engine.Origin {
		t.Errorf("restart snapshot = %+v, expected a fresh run", snap)
	}
	if snap.HighScore != 3 {
		t.Errorf("HighScore = %d, expected 3 to survive the restart", snap.HighScore)
	}

	// Identities keep growing across sessions sharing the generator
	other, _ := engine.NewSession(cfg, ids, nil)
	if other.Snapshot().ActorID <= snap.ActorID {
		t.Errorf("new session identity %d should exceed %d", other.Snapshot().ActorID, snap.ActorID)
	}
}

func TestSessionReset(t *testing.T) {
	s := newSession(t, 6, 6, nil)
	_ = s.Start()
	_, _ = s.Tick(engine.HeadingRight)
	old := s.Snapshot()

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	snap := s.Snapshot()
	if snap.State != engine.StatePlaying {
		t.Errorf("State = %v, expected playing", snap.State)
	}
	if snap.ActorID == old.ActorID {
		t.Error("Reset should build a new snake")
	}
	if snap.At(engine.P(1, 0)) != engine.Empty {
		t.Error("Reset should build a new board")
	}
}

func TestSessionAbort(t *testing.T) {
	s := newSession(t, 6, 6, nil)
	_ = s.Start()
	_, _ = s.Tick(engine.HeadingRight)

	if err := s.Abort(); err != nil {
		t.Fatalf("Abort() failed: %v", err)
	}
	if s.State() != engine.StateEnd {
		t.Errorf("State() = %v, expected end", s.State())
	}
	if !s.Qualifies() {
		t.Error("an empty leaderboard accepts any score")
	}
}

func TestSessionFinishCommitsAndSaves(t *testing.T) {
	store := &memStore{}
	s := newSession(t, 5, 1, store)
	_ = s.Start()
	runToWall(t, s)

	if !s.Snapshot().Qualifies {
		t.Fatal("first run should qualify")
	}
	res, err := s.Finish("abc")
	if err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	if res.Rank != 1 || res.SaveErr != nil {
		t.Errorf("Finish() = %+v, expected rank 1 and no save error", res)
	}
	want := []engine.ScoreEntry{{Initials: "ABC", Score: 5}}
	if !reflect.DeepEqual(store.entries, want) {
		t.Errorf("stored %v, expected %v", store.entries, want)
	}
	if s.Qualifies() {
		t.Error("Qualifies() should be false once committed")
	}

	if _, err := s.Finish("ABC"); !errors.Is(err, engine.ErrInvalidStateTransition) {
		t.Errorf("second Finish() error = %v, expected ErrInvalidStateTransition", err)
	}

	// Round trip through the store
	again := newSession(t, 5, 1, store)
	if err := again.LoadScores(); err != nil {
		t.Fatalf("LoadScores() failed: %v", err)
	}
	if !reflect.DeepEqual(again.Snapshot().TopScores, want) {
		t.Errorf("loaded %v, expected %v", again.Snapshot().TopScores, want)
	}
	if again.Snapshot().HighScore != 5 {
		t.Errorf("HighScore = %d, expected 5", again.Snapshot().HighScore)
	}
}

func TestSessionFinishRejections(t *testing.T) {
	full := &memStore{}
	for i := 0; i < engine.MaxTopScores; i++ {
		full.entries = append(full.entries, engine.ScoreEntry{Initials: "TOP", Score: 100})
	}
	s := newSession(t, 3, 1, full)
	if err := s.LoadScores(); err != nil {
		t.Fatalf("LoadScores() failed: %v", err)
	}
	_ = s.Start()
	runToWall(t, s)

	if s.Qualifies() {
		t.Fatal("a score of 3 should not beat a full board of 100s")
	}
	if _, err := s.Finish("ABC"); !errors.Is(err, engine.ErrNotTopScore) {
		t.Errorf("Finish() error = %v, expected ErrNotTopScore", err)
	}

	q := newSession(t, 3, 1, nil)
	_ = q.Start()
	runToWall(t, q)
	if _, err := q.Finish("AB"); !errors.Is(err, engine.ErrInvalidInitials) {
		t.Errorf("Finish(AB) error = %v, expected ErrInvalidInitials", err)
	}
	if !q.Qualifies() {
		t.Error("bad initials must not consume the run")
	}
}

func TestSessionFinishWithoutStoreWarns(t *testing.T) {
	s := newSession(t, 3, 1, nil)
	_ = s.Start()
	runToWall(t, s)

	res, err := s.Finish("ZZZ")
	if err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	if !errors.Is(res.SaveErr, engine.ErrNoStore) {
		t.Errorf("SaveErr = %v, expected ErrNoStore", res.SaveErr)
	}
	if len(s.Snapshot().TopScores) != 1 {
		t.Error("the entry should stay on the in-memory leaderboard")
	}

	broken := &memStore{saveErr: errors.New("read-only")}
	b := newSession(t, 3, 1, broken)
	_ = b.Start()
	runToWall(t, b)
	res, err = b.Finish("ZZZ")
	if err != nil || res.SaveErr == nil {
		t.Errorf("Finish() = %+v, %v, expected a save warning and no error", res, err)
	}
}

func TestSessionFinishMergesSharedStore(t *testing.T) {
	store := &memStore{}
	a := newSession(t, 5, 1, store)
	b := newSession(t, 5, 1, store)
	for _, s := range []*engine.Session{a, b} {
		if err := s.LoadScores(); err != nil {
			t.Fatalf("LoadScores() failed: %v", err)
		}
		_ = s.Start()
		runToWall(t, s)
	}

	if _, err := a.Finish("AAA"); err != nil {
		t.Fatalf("Finish(AAA) failed: %v", err)
	}
	res, err := b.Finish("BBB")
	if err != nil {
		t.Fatalf("Finish(BBB) failed: %v", err)
	}
	if res.Rank != 2 || res.SaveErr != nil {
		t.Errorf("Finish(BBB) = %+v, expected rank 2 behind the earlier tie", res)
	}

	want := []engine.ScoreEntry{{Initials: "AAA", Score: 5}, {Initials: "BBB", Score: 5}}
	if !reflect.DeepEqual(store.entries, want) {
		t.Errorf("stored %v, expected %v", store.entries, want)
	}
	if !reflect.DeepEqual(b.Snapshot().TopScores, want) {
		t.Errorf("leaderboard %v, expected %v", b.Snapshot().TopScores, want)
	}
}

func TestSessionFinishKeepsUnreadableStore(t *testing.T) {
	store := &memStore{entries: []engine.ScoreEntry{{Initials: "OLD", Score: 1}}}
	s := newSession(t, 3, 1, store)
	_ = s.Start()
	runToWall(t, s)

	store.loadErr = errors.New("locked")
	res, err := s.Finish("NEW")
	if err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	if res.SaveErr == nil {
		t.Error("Finish() should warn when the stored leaderboard cannot be read")
	}
	if store.saves != 0 {
		t.Errorf("store saved %d times, expected the unreadable leaderboard left alone", store.saves)
	}
	if got := s.Snapshot().TopScores; len(got) != 1 || got[0].Initials != "NEW" {
		t.Errorf("leaderboard %v, expected the run kept in memory", got)
	}
}

func TestSessionLoadScoresFailureKeepsLeaderboard(t *testing.T) {
	want := []engine.ScoreEntry{{Initials: "ACE", Score: 7}}
	store := &memStore{entries: want}
	s := newSession(t, 5, 5, store)
	if err := s.LoadScores(); err != nil {
		t.Fatalf("LoadScores() failed: %v", err)
	}

	store.loadErr = errors.New("disk gone")
	if err := s.LoadScores(); err == nil {
		t.Fatal("LoadScores() should report the store error")
	}
	if got := s.Snapshot().TopScores; !reflect.DeepEqual(got, want) {
		t.Errorf("leaderboard %v, expected %v after a failed load", got, want)
	}
	if s.Snapshot().HighScore != 7 {
		t.Errorf("HighScore = %d, expected 7", s.Snapshot().HighScore)
	}
}
