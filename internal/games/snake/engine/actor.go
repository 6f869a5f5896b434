package engine

// Actor is the snake. It tracks only its head, heading and length; every cell
// it has entered stays occupied by its identity.
type Actor struct {
	board   *Board
	id      ActorID
	head    Position
	heading Heading
	length  int
	alive   bool
}

// NewActor places a snake with identity id at origin facing heading.
// The origin cell is claimed if it is free. An invalid heading falls back to
// DefaultHeading.
func NewActor(board *Board, id ActorID, origin Position, heading Heading) *Actor {
	if !heading.Valid() {
		heading = DefaultHeading
	}
	a := &Actor{
		board:   board,
		id:      id,
		head:    origin,
		heading: heading,
		length:  1,
		alive:   true,
	}
	if board.IsFreeSpace(origin) {
		//nolint:errcheck // origin was just checked
		board.Occupy(origin, id)
	}
	return a
}

// ID returns the snake's identity.
func (a *Actor) ID() ActorID { return a.id }

// Head returns the current head position.
func (a *Actor) Head() Position { return a.head }

// Heading returns the current heading.
func (a *Actor) Heading() Heading { return a.heading }

// Length returns the number of cells the snake has claimed.
func (a *Actor) Length() int { return a.length }

// Alive reports whether the snake has not collided yet.
func (a *Actor) Alive() bool { return a.alive }

// ChangeHeading turns the snake toward requested.
//
// The turn is refused, leaving the heading unchanged, when requested is not a
// valid heading, is the exact reverse of the current heading, or would point
// the snake straight into a wall on its next step. A refused turn gives the
// player no feedback, so turning into a wall is never allowed.
func (a *Actor) ChangeHeading(requested Heading) bool {
	if !requested.Valid() || a.heading.IsOpposite(requested) {
		return false
	}
	if !a.board.IsValidPoint(a.head.Next(requested)) {
		return false
	}
	a.heading = requested
	return true
}

// Move advances the head one cell in the current heading.
//
// It returns true when the new cell was free; the cell is claimed and the
// length grows by one. It returns false on collision with a wall or an
// occupied cell. The head is left on the fatal cell so a renderer can show
// where the collision happened. A dead snake no longer moves.
func (a *Actor) Move() bool {
	if !a.alive {
		return false
	}
	a.head = a.head.Next(a.heading)
	if !a.board.IsFreeSpace(a.head) {
		a.alive = false
		return false
	}
	//nolint:errcheck // IsFreeSpace implies a valid point
	a.board.Occupy(a.head, a.id)
	a.length++
	return true
}
