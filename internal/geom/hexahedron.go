package geom

import "strings"

// hexFaces walks the six quads of a hexahedron; each ring repeats its
// first corner.
var hexFaces = [6][5]int{
	{0, 1, 7, 4, 0},
	{1, 2, 6, 7, 1},
	{2, 3, 5, 6, 2},
	{3, 0, 4, 5, 3},
	{4, 7, 6, 5, 4},
	{0, 3, 2, 1, 0},
}

// Hexahedron is an axis-aligned cuboid spanning corner..corner+sizes.
// A 2-D corner point produces a degenerate flat cuboid without z
// coordinates.
type Hexahedron struct {
	points [8]Point
}

func NewHexahedron(corner Point, xsize, ysize, zsize float64) *Hexahedron {
	off := func(dx, dy, dz float64) Point {
		p := corner
		p.X += dx
		p.Y += dy
		if p.HasZ {
			p.Z += dz
		}
		return p
	}
	return &Hexahedron{points: [8]Point{
		off(0, 0, 0),
		off(xsize, 0, 0),
		off(xsize, 0, zsize),
		off(0, 0, zsize),
		off(0, ysize, 0),
		off(0, ysize, zsize),
		off(xsize, ysize, zsize),
		off(xsize, ysize, 0),
	}}
}

// Corner returns the i-th corner in construction order.
func (h *Hexahedron) Corner(i int) Point {
	return h.points[i]
}

// Coords returns the six face rings, each double-parenthesized, comma
// separated.
func (h *Hexahedron) Coords() string {
	var b strings.Builder
	for i, face := range hexFaces {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("((")
		for j, idx := range face {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(h.points[idx].Coords())
		}
		b.WriteString("))")
	}
	return b.String()
}

func (h *Hexahedron) WKT() string {
	if h.points[0].HasZ {
		return "POLYHEDRALSURFACEZ(" + h.Coords() + ")"
	}
	return "POLYHEDRALSURFACE(" + h.Coords() + ")"
}
