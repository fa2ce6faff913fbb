package mine

import "fmt"

// Grid is the cell arena for one level. Cells live in one fixed slice,
// so pointers into it stay valid for the life of the level; the zero
// Type marks unoccupied positions.
type Grid struct {
	cols, rows int
	cells      []Cell
}

func NewGrid(cols, rows int) *Grid {
	return &Grid{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// At returns the cell at (col, row). The position must be on the grid.
func (g *Grid) At(col, row int) *Cell {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		panic(fmt.Sprintf("mine: position (%d,%d) outside %dx%d grid", col, row, g.cols, g.rows))
	}
	return &g.cells[row*g.cols+col]
}

// adjacent returns the in-bounds planar neighbors of (col, row), probing
// north, west, east, south.
func (g *Grid) adjacent(col, row int) []Coord {
	probes := [4]Coord{
		{col, row - 1},
		{col - 1, row},
		{col + 1, row},
		{col, row + 1},
	}
	out := make([]Coord, 0, 4)
	for _, p := range probes {
		if p.Col >= 0 && p.Col < g.cols && p.Row >= 0 && p.Row < g.rows {
			out = append(out, p)
		}
	}
	return out
}

// linkNeighbors hands every occupied cell the coordinates of its
// occupied planar neighbors. Runs once, after carving settles.
func (g *Grid) linkNeighbors() {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			cell := g.At(col, row)
			if cell.Type == CellEmpty {
				continue
			}
			var coords []Coord
			for _, n := range g.adjacent(col, row) {
				if g.At(n.Col, n.Row).Type != CellEmpty {
					coords = append(coords, n)
				}
			}
			cell.SetNeighbors(coords)
		}
	}
}
