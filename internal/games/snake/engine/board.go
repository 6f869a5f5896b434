package engine

import "fmt"

// Board gives the grid game semantics, addressed by Position.
//
// The board enforces bounds only. Game rules such as "do not enter an
// occupied cell" belong to the Actor, which checks IsFreeSpace before Occupy.
//
// Occupied cells are never vacated: the snake's length is a counter, not a
// list of segments, so the playable area shrinks monotonically as it grows.
type Board struct {
	grid *Grid
}

// NewBoard creates an empty board of the given width (columns) and height (rows).
func NewBoard(width, height int) *Board {
	return &Board{grid: NewGrid(height, width)}
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.grid.Cols() }

// Height returns the number of rows.
func (b *Board) Height() int { return b.grid.Rows() }

// IsValidPoint reports whether p lies on the board.
func (b *Board) IsValidPoint(p Position) bool {
	_, err := b.grid.At(p.Y, p.X)
	return err == nil
}

// IsFreeSpace reports whether p is on the board and unoccupied.
func (b *Board) IsFreeSpace(p Position) bool {
	v, err := b.grid.At(p.Y, p.X)
	return err == nil && v == Empty
}

// OccupantAt returns the value of the cell at p.
func (b *Board) OccupantAt(p Position) (ActorID, error) {
	v, err := b.grid.At(p.Y, p.X)
	if err != nil {
		return Empty, fmt.Errorf("engine: occupant at %s: %w", p, ErrInvalidPoint)
	}
	return v, nil
}

// Occupy marks p as owned by id. It does not check prior occupancy.
func (b *Board) Occupy(p Position, id ActorID) error {
	if err := b.grid.Set(p.Y, p.X, id); err != nil {
		return fmt.Errorf("engine: occupy %s: %w", p, ErrInvalidPoint)
	}
	return nil
}

// FreeCount returns the number of unoccupied cells.
func (b *Board) FreeCount() int {
	n := 0
	for _, v := range b.grid.cells {
		if v == Empty {
			n++
		}
	}
	return n
}

// Cells returns a row-major copy of every cell.
func (b *Board) Cells() []ActorID {
	return b.grid.values()
}
