package mine

import (
	"math"
	"slices"

	"minesynth.ai/internal/sim/graph"
)

// BuildNetwork lays out the level: room endpoints, the corridor tree
// connecting them, planar neighbor links, and on the deepest level of a
// multi-level mine the elevator shaft.
func (l *Level) BuildNetwork() {
	p := l.params
	l.Grid = NewGrid(p.Cols, p.Rows)

	rooms := make([]Coord, 0, l.numRooms)
	rooms = append(rooms, p.Elevator)
	for len(rooms) < l.numRooms {
		rooms = append(rooms, Coord{Col: l.rng.Intn(p.Cols), Row: l.rng.Intn(p.Rows)})
	}
	l.Rooms = rooms

	for _, room := range rooms {
		*l.Grid.At(room.Col, room.Row) = *NewCell(CellSpec{
			Col: room.Col, Row: room.Row,
			Height: p.CellHeight,
			Width:  p.CellWidth,
			Level:  l.Index,
			Type:   CellEndpoint,
		})
	}

	// Each room reaches for its nearest peer; edges that would close a
	// cycle fall through to the next-nearest until candidates run out.
	conn := graph.NewConnector(len(rooms))
	for i, room := range rooms {
		excluded := []int{i}
		connected := false
		for len(excluded) < len(rooms) {
			neighbor := nearestRoom(rooms, i, excluded)
			if conn.MayConnect(i, neighbor) {
				conn.Connect(i, neighbor)
				l.carve(room, rooms[neighbor])
				connected = true
				break
			}
			excluded = append(excluded, neighbor)
		}
		if !connected {
			l.Unreached = append(l.Unreached, i)
		}
	}

	l.Grid.linkNeighbors()

	if l.Index > 0 && l.Index == l.levels-1 {
		l.Elevator = NewCell(CellSpec{
			Col: p.Elevator.Col, Row: p.Elevator.Row,
			Height:  p.CellHeight * float64(l.levels-1) * -25,
			Width:   p.CellWidth,
			Padding: 1,
			Dims:    p.Dims,
			Type:    CellCorridor,
		})
	}
}

// nearestRoom returns the index of the room closest to rooms[from] by
// planar distance, skipping excluded indexes. Ties keep the first room
// scanned; with every index excluded it falls back to room 0.
func nearestRoom(rooms []Coord, from int, excluded []int) int {
	best, bestDist := 0, 999999999.0
	for i, room := range rooms {
		if slices.Contains(excluded, i) {
			continue
		}
		d := math.Hypot(float64(rooms[from].Col-room.Col), float64(rooms[from].Row-room.Row))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// carve cuts an L-shaped corridor between two rooms: along columns at
// the source row, then along rows at the destination column, both ends
// inclusive. Every visited cell lands on the corridor list in path
// order; corners and crossings appear once per visit.
func (l *Level) carve(from, to Coord) {
	ensure := func(col, row int) {
		cell := l.Grid.At(col, row)
		if cell.Type == CellEmpty {
			*cell = *NewCell(CellSpec{
				Col: col, Row: row,
				Height: l.params.CellHeight,
				Width:  l.params.CellWidth,
				Level:  l.Index,
			})
		}
		cell.Type = CellCorridor
		l.Corridor = append(l.Corridor, cell)
	}

	dir := -1
	if to.Col > from.Col {
		dir = 1
	}
	for col := from.Col; col != to.Col+dir; col += dir {
		ensure(col, from.Row)
	}
	dir = -1
	if to.Row > from.Row {
		dir = 1
	}
	for row := from.Row; row != to.Row+dir; row += dir {
		ensure(to.Col, row)
	}
}
