package engine

import (
	"errors"
	"fmt"
)

// State is the lifecycle state of a session.
type State int

const (
	StateStart State = iota
	StatePlaying
	StateEnd
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePlaying:
		return "playing"
	case StateEnd:
		return "end"
	default:
		return "unknown"
	}
}

// op names a session operation for the transition table.
type op string

const (
	opStart  op = "start"
	opReset  op = "reset"
	opTick   op = "tick"
	opAbort  op = "abort"
	opFinish op = "finish"
)

// transitions lists, per operation, the states it may be called from.
var transitions = map[op][]State{
	opStart:  {StateStart, StateEnd},
	opReset:  {StatePlaying, StateEnd},
	opTick:   {StatePlaying},
	opAbort:  {StatePlaying},
	opFinish: {StateEnd},
}

// Origin is where every new snake starts.
var Origin = P(0, 0)

// TickResult describes the outcome of one tick.
type TickResult struct {
	Turned    bool // The requested heading was accepted
	Moved     bool // The snake advanced into a free cell
	Collision bool // The snake hit a wall or itself; the session is now over
}

// FinishResult describes a committed leaderboard entry.
type FinishResult struct {
	Rank int // 1-based leaderboard position, 0 if it did not survive truncation

	// SaveErr is non-nil when the leaderboard could not be persisted.
	// It is a warning: the entry is still on the in-memory leaderboard.
	SaveErr error
}

// Session runs one player's games: it owns the current board, snake and
// score tracker and moves between Start, Playing and End.
//
// A Session is not safe for concurrent use. Drivers serialize calls to
// Tick, Start, Reset, Abort and Finish.
type Session struct {
	cfg    SessionConfig
	ids    *IDGenerator
	store  ScoreStore
	state  State
	board  *Board
	actor  *Actor
	scores *ScoreTracker
	ticks  uint64

	qualified bool // End state: the run's score may enter the leaderboard
	finished  bool // End state: Finish already committed this run
	started   bool // Start has been called at least once
}

// NewSession creates a session in the Start state with a fresh board and snake.
// store may be nil, in which case nothing is persisted.
func NewSession(cfg SessionConfig, ids *IDGenerator, store ScoreStore) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = NewIDGenerator()
	}
	s := &Session{
		cfg:    cfg,
		ids:    ids,
		store:  store,
		state:  StateStart,
		scores: NewScoreTracker(),
	}
	s.newRound()
	return s, nil
}

// Config returns the session configuration.
func (s *Session) Config() SessionConfig { return s.cfg }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Scores exposes the score tracker for read access.
func (s *Session) Scores() *ScoreTracker { return s.scores }

// LoadScores fills the leaderboard from the store. On failure the
// leaderboard keeps its previous contents; callers treat it as a warning.
func (s *Session) LoadScores() error {
	return s.scores.Load(s.store)
}

func (s *Session) require(o op) error {
	for _, st := range transitions[o] {
		if st == s.state {
			return nil
		}
	}
	return fmt.Errorf("engine: %s from %s: %w", o, s.state, ErrInvalidStateTransition)
}

// newRound discards the board and snake and builds fresh ones.
func (s *Session) newRound() {
	s.board = NewBoard(s.cfg.Width, s.cfg.Height)
	s.actor = NewActor(s.board, s.ids.Next(), Origin, DefaultHeading)
	s.qualified = false
	s.finished = false
	s.ticks = 0
}

// Start begins a run. The very first Start reuses the board and snake built
// by NewSession; starting again after End builds fresh ones with a new
// snake identity. The current score restarts at zero.
func (s *Session) Start() error {
	if err := s.require(opStart); err != nil {
		return err
	}
	if s.started {
		s.newRound()
	}
	s.started = true
	s.scores.ResetCurrent()
	s.state = StatePlaying
	return nil
}

// Reset discards the current board and snake and starts a fresh run.
func (s *Session) Reset() error {
	if err := s.require(opReset); err != nil {
		return err
	}
	s.newRound()
	s.started = true
	s.scores.ResetCurrent()
	s.state = StatePlaying
	return nil
}

// Tick advances the simulation one step toward requested.
//
// If requested differs from the snake's heading a single turn is attempted;
// a refused turn is dropped, not queued. The snake then moves. On success the
// score becomes the snake's length. On collision the session ends.
func (s *Session) Tick(requested Heading) (TickResult, error) {
	if err := s.require(opTick); err != nil {
		return TickResult{}, err
	}
	if !requested.Valid() {
		return TickResult{}, fmt.Errorf("engine: tick %s: %w", requested, ErrInvalidHeading)
	}

	var res TickResult
	if requested != s.actor.Heading() {
		res.Turned = s.actor.ChangeHeading(requested)
	}
	s.ticks++

	if s.actor.Move() {
		res.Moved = true
		s.scores.UpdateScore(s.actor.Length())
		return res, nil
	}

	res.Collision = true
	s.end()
	return res, nil
}

// Abort ends a running game without a collision.
func (s *Session) Abort() error {
	if err := s.require(opAbort); err != nil {
		return err
	}
	s.end()
	return nil
}

func (s *Session) end() {
	s.state = StateEnd
	s.qualified = s.scores.IsTopScore(s.scores.Score())
}

// Qualifies reports whether the finished run may be entered on the leaderboard.
// It is false outside the End state and after Finish has committed the run.
func (s *Session) Qualifies() bool {
	return s.state == StateEnd && s.qualified && !s.finished
}

// Finish commits the finished run's score under initials and saves the
// leaderboard. It may be called once per run, and only when the run
// qualified. Persistence failures are reported in FinishResult.SaveErr.
func (s *Session) Finish(initials string) (FinishResult, error) {
	if err := s.require(opFinish); err != nil {
		return FinishResult{}, err
	}
	if s.finished {
		return FinishResult{}, fmt.Errorf("engine: finish: score already committed: %w", ErrInvalidStateTransition)
	}
	if !s.qualified {
		return FinishResult{}, fmt.Errorf("engine: finish with %d: %w", s.scores.Score(), ErrNotTopScore)
	}
	name, err := NormalizeInitials(initials)
	if err != nil {
		return FinishResult{}, err
	}

	rank, saveErr := s.commitShared(name, s.scores.Score())
	s.finished = true
	return FinishResult{Rank: rank, SaveErr: saveErr}, nil
}

// commitShared commits score to the leaderboard merged with whatever other
// sessions have stored since this one last loaded it. The entry is always
// committed in memory; the returned error only concerns persistence.
//
// A rank of 0 means entries stored by others pushed the score off the board.
func (s *Session) commitShared(name string, score int) (int, error) {
	if s.store == nil {
		rank, _ := s.scores.CommitScore(name, score)
		return rank, ErrNoStore
	}

	if u, ok := s.store.(ScoreUpdater); ok {
		rank, committed := 0, false
		err := u.UpdateScores(func(current []ScoreEntry) ([]ScoreEntry, error) {
			s.scores.setTop(current)
			rank, _ = s.scores.CommitScore(name, score)
			committed = true
			return s.scores.TopScores(), nil
		})
		if !committed {
			rank, _ = s.scores.CommitScore(name, score)
		}
		if err != nil {
			return rank, fmt.Errorf("engine: save scores: %w", err)
		}
		return rank, nil
	}

	// A leaderboard that cannot be read is not overwritten.
	if err := s.scores.Load(s.store); err != nil {
		rank, _ := s.scores.CommitScore(name, score)
		return rank, err
	}
	rank, _ := s.scores.CommitScore(name, score)
	return rank, s.scores.Save(s.store)
}

// IsStateError reports whether err came from calling an operation in the wrong state.
func IsStateError(err error) bool {
	return errors.Is(err, ErrInvalidStateTransition)
}
