package engine

import "fmt"

// Position is a cell coordinate on the board.
// X increases to the right, Y increases downward.
type Position struct {
	X int
	Y int
}

// P is a convenience constructor for Position.
func P(x, y int) Position {
	return Position{X: x, Y: y}
}

// Next returns the neighboring position one step in heading h.
// An invalid heading yields p itself.
func (p Position) Next(h Heading) Position {
	dx, dy := h.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
