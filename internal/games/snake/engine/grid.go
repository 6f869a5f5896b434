package engine

import "fmt"

// ActorID identifies the snake occupying a cell. Empty marks a free cell.
type ActorID int

// Empty is the value of an unoccupied cell.
const Empty ActorID = 0

// Grid is a fixed-size rows x cols matrix of cells.
// It is the only place where bounds arithmetic happens.
type Grid struct {
	rows  int
	cols  int
	cells []ActorID // row-major: index = row*cols + col
}

// NewGrid creates a grid with every cell set to Empty.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]ActorID, rows*cols),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) check(row, col int) error {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return fmt.Errorf("engine: cell (%d,%d) outside %dx%d grid: %w", row, col, g.rows, g.cols, ErrOutOfBounds)
	}
	return nil
}

// At returns the value stored at (row, col).
func (g *Grid) At(row, col int) (ActorID, error) {
	if err := g.check(row, col); err != nil {
		return Empty, err
	}
	return g.cells[row*g.cols+col], nil
}

// Set stores v at (row, col).
func (g *Grid) Set(row, col int, v ActorID) error {
	if err := g.check(row, col); err != nil {
		return err
	}
	g.cells[row*g.cols+col] = v
	return nil
}

// values returns a copy of the cells in row-major order.
func (g *Grid) values() []ActorID {
	out := make([]ActorID, len(g.cells))
	copy(out, g.cells)
	return out
}
