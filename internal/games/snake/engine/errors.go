// Package engine implements the Snake game state: the grid and board model,
// the snake's movement and collision rules, heading validation, score
// bookkeeping and the session state machine.
//
// The package is UI-agnostic and performs no I/O of its own. Renderers read
// Snapshot values; input layers call Session.Tick with the latest requested
// heading; persistence is delegated to a ScoreStore.
package engine

import "errors"

var (
	// ErrOutOfBounds is returned by Grid when a row or column falls outside the grid.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrInvalidPoint is returned by Board when a position is not on the board.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrInvalidStateTransition is returned when a session operation is called
	// from a state that does not allow it.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInvalidHeading is returned when a heading outside Up/Down/Left/Right is supplied.
	ErrInvalidHeading = errors.New("invalid heading")

	// ErrInvalidInitials is returned when leaderboard initials are not 3 printable characters.
	ErrInvalidInitials = errors.New("initials must be 3 non-space characters")

	// ErrNotTopScore is returned by Session.Finish when the finished run did not
	// qualify for the leaderboard.
	ErrNotTopScore = errors.New("score does not qualify for the leaderboard")

	// ErrNoStore is reported when scores cannot be persisted because no store is configured.
	ErrNoStore = errors.New("no score store configured")

	// ErrInvalidConfig is returned for session configurations with non-positive fields.
	ErrInvalidConfig = errors.New("invalid session config")
)
