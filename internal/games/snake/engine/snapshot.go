package engine

// Snapshot is an immutable view of a session for renderers.
type Snapshot struct {
	State     State
	Tick      uint64
	Width     int
	Height    int
	Cells     []ActorID // Row-major, len Width*Height
	ActorID   ActorID
	Head      Position
	Heading   Heading
	Length    int
	Alive     bool
	Score     int
	HighScore int
	Qualifies bool // Only ever true in the End state
	TopScores []ScoreEntry
}

// Snapshot copies the session's current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:     s.state,
		Tick:      s.ticks,
		Width:     s.board.Width(),
		Height:    s.board.Height(),
		Cells:     s.board.Cells(),
		ActorID:   s.actor.ID(),
		Head:      s.actor.Head(),
		Heading:   s.actor.Heading(),
		Length:    s.actor.Length(),
		Alive:     s.actor.Alive(),
		Score:     s.scores.Score(),
		HighScore: s.scores.HighScore(),
		Qualifies: s.Qualifies(),
		TopScores: s.scores.TopScores(),
	}
}

// At returns the cell at p, or Empty when p is off the board.
func (s Snapshot) At(p Position) ActorID {
	if p.X < 0 || p.X >= s.Width || p.Y < 0 || p.Y >= s.Height {
		return Empty
	}
	return s.Cells[p.Y*s.Width+p.X]
}

// Occupied reports whether the snake in this snapshot owns the cell at p.
func (s Snapshot) Occupied(p Position) bool {
	return s.At(p) == s.ActorID
}

// OnBoard reports whether the head is inside the board. It is false only in
// the terminal frame after a wall collision.
func (s Snapshot) OnBoard() bool {
	return s.Head.X >= 0 && s.Head.X < s.Width && s.Head.Y >= 0 && s.Head.Y < s.Height
}
