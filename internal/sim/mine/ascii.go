package mine

import (
	"strconv"
	"strings"
)

// RenderMap draws the level one character per grid cell: rooms x,
// corridors #, empty ground dots. A cell hosting drill holes shows its
// hole count instead.
func (l *Level) RenderMap() string {
	counts := make(map[Coord]int, len(l.Drills))
	for _, d := range l.Drills {
		counts[Coord{Col: d.Col, Row: d.Row}]++
	}

	var b strings.Builder
	for row := 0; row < l.Grid.Rows(); row++ {
		for col := 0; col < l.Grid.Cols(); col++ {
			if n, ok := counts[Coord{Col: col, Row: row}]; ok {
				b.WriteString(strconv.Itoa(n))
				continue
			}
			switch l.Grid.At(col, row).Type {
			case CellCorridor:
				b.WriteByte('#')
			case CellDrill:
				b.WriteByte('!')
			case CellEndpoint:
				b.WriteByte('x')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
